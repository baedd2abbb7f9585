package models

// Muscle groups used for seeding cold-start weights and for reporting.
const (
	MuscleChest     = "Pectoraux"
	MuscleBack      = "Dos"
	MuscleLegs      = "Jambes"
	MuscleShoulders = "Épaules"
	MuscleArms      = "Bras"
	MuscleCardio    = "Cardio"
	MuscleOther     = "Autre"
)

// MachineCategory groups machines by equipment type.
type MachineCategory string

const (
	CategoryStrength   MachineCategory = "MUSCULATION"
	CategoryCardio     MachineCategory = "CARDIO"
	CategoryCable      MachineCategory = "CABLE"
	CategoryFreeWeight MachineCategory = "POIDS_LIBRE"
	CategoryGuided     MachineCategory = "MACHINE_GUIDEE"
	CategoryFunctional MachineCategory = "FONCTIONNEL"
)

// Difficulty is the technical level a machine asks for.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "DEBUTANT"
	DifficultyIntermediate Difficulty = "INTERMEDIAIRE"
	DifficultyAdvanced     Difficulty = "AVANCE"
	DifficultyExpert       Difficulty = "EXPERT"
)

// Rank orders difficulties from 1 (beginner) to 4 (expert); unknown is 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	case DifficultyExpert:
		return 4
	}
	return 0
}

// Machine is a piece of gym equipment or exercise with its load bounds.
// Name is the identity key for history lookups.
type Machine struct {
	Name             string          `json:"name" yaml:"name"`
	EnglishName      string          `json:"english_name,omitempty" yaml:"english_name"`
	MuscleGroup      string          `json:"muscle_group" yaml:"muscle_group"`
	Category         MachineCategory `json:"category" yaml:"category"`
	WeightMin        float64         `json:"weight_min" yaml:"weight_min"`
	WeightMax        float64         `json:"weight_max" yaml:"weight_max"`
	Increment        float64         `json:"increment" yaml:"increment"`
	Difficulty       Difficulty      `json:"difficulty" yaml:"difficulty"`
	NeedsSupervision bool            `json:"needs_supervision" yaml:"needs_supervision"`
	Popularity       int             `json:"popularity" yaml:"popularity"`
	Tags             []string        `json:"tags,omitempty" yaml:"tags"`
}

// Clamp bounds w to [WeightMin, WeightMax].
func (m Machine) Clamp(w float64) float64 {
	if w < m.WeightMin {
		return m.WeightMin
	}
	if w > m.WeightMax {
		return m.WeightMax
	}
	return w
}

// Snap rounds w to the nearest loadable increment, then clamps it.
func (m Machine) Snap(w float64) float64 {
	if m.Increment <= 0 {
		return m.Clamp(w)
	}
	steps := (w - m.WeightMin) / m.Increment
	n := float64(int(steps + 0.5))
	if steps < 0 {
		n = 0
	}
	return m.Clamp(m.WeightMin + n*m.Increment)
}
