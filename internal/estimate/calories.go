package estimate

import (
	"strings"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
)

// Intensity is the effort label attached to an exercise.
type Intensity string

const (
	IntensityLight    Intensity = "Léger"
	IntensityModerate Intensity = "Modéré"
	IntensityIntense  Intensity = "Intense"
)

// CalorieStrategy names one of the two calorie estimators. They produce
// different numbers for the same input and are kept separate.
type CalorieStrategy string

const (
	StrategyPerSet1RM       CalorieStrategy = "perSet1RMBased"
	StrategyPerExerciseName CalorieStrategy = "perExerciseNameBased"
)

const (
	secondsPerSet      = 45
	defaultRestSeconds = 90
	defaultPercent1RM  = 50
	// Compendium-style correction applied on top of MET × kg × hours.
	metCorrection      = 1.05
)

// MET returns the base metabolic equivalent for an intensity label.
// English labels are accepted; anything unknown is moderate.
func MET(i Intensity) float64 {
	switch strings.ToLower(string(i)) {
	case "léger", "leger", "light":
		return 3.0
	case "modéré", "modere", "moderate":
		return 5.0
	case "intense":
		return 8.0
	}
	return 5.0
}

// IntensityForLoad derives an intensity label from load relative to body weight.
func IntensityForLoad(weightKg, bodyWeightKg float64) Intensity {
	switch {
	case bodyWeightKg <= 0:
		return IntensityModerate
	case weightKg > bodyWeightKg:
		return IntensityIntense
	case weightKg > bodyWeightKg*0.5:
		return IntensityModerate
	}
	return IntensityLight
}

// SetCalorieInput carries everything the 1RM-based estimator needs.
type SetCalorieInput struct {
	Intensity    Intensity
	Sets         int
	WeightKg     float64
	OneRepMax    float64
	RestSeconds  int
	BodyWeightKg float64
	Age          int
	Sex          models.Sex
}

// CaloriesPerSet1RM estimates kcal for one exercise from MET, relative load
// against the 1RM, age and sex.
func CaloriesPerSet1RM(in SetCalorieInput) int {
	met := MET(in.Intensity)

	pct := float64(defaultPercent1RM)
	if in.OneRepMax > 0 {
		pct = in.WeightKg / in.OneRepMax * 100
	}
	met *= loadMultiplier(pct)

	sets := in.Sets
	if sets < 0 {
		sets = 0
	}
	restSets := sets - 1
	if restSets < 0 {
		restSets = 0
	}
	minutes := float64(sets*secondsPerSet+restSets*in.RestSeconds) / 60

	kcal := met * in.BodyWeightKg * (minutes / 60) * ageMultiplier(in.Age) * sexMultiplier(in.Sex) * metCorrection
	if kcal < 0 {
		return 0
	}
	return int(kcal)
}

func loadMultiplier(pct float64) float64 {
	switch {
	case pct > 85:
		return 1.3
	case pct > 70:
		return 1.1
	case pct > 50:
		return 1.0
	}
	return 0.8
}

func ageMultiplier(age int) float64 {
	switch {
	case age < 25:
		return 1.1
	case age < 35:
		return 1.0
	case age < 50:
		return 0.95
	}
	return 0.9
}

func sexMultiplier(s models.Sex) float64 {
	if s.IsMale() {
		return 1.0
	}
	return 0.85
}

// DefaultCaloriesPerMinute applies to exercises missing from the rate table.
const DefaultCaloriesPerMinute = 6.0

// caloriesPerMinute is keyed by exact exercise name.
var caloriesPerMinute = map[string]float64{
	"Squat":                8.0,
	"Leg Press":            7.0,
	"Soulevé de terre":     8.5,
	"Développé couché":     6.5,
	"Développé incliné":    6.5,
	"Développé militaire":  6.0,
	"Tractions":            7.5,
	"Tirage vertical":      6.0,
	"Rowing assis":         6.0,
	"Curl biceps":          4.5,
	"Extension triceps":    4.5,
	"Élévations latérales": 4.0,
	"Pec Deck":             5.0,
	"Extension quadriceps": 5.0,
	"Curl ischios":         5.0,
	"Tapis de course":      10.0,
	"Vélo elliptique":      8.5,
	"Rameur":               9.0,
}

// CaloriesPerMinute returns the rate for an exercise name.
func CaloriesPerMinute(name string) float64 {
	if r, ok := caloriesPerMinute[name]; ok {
		return r
	}
	return DefaultCaloriesPerMinute
}

// CaloriesByExerciseName estimates kcal from the per-name rate table, scaled
// by the MET ratio of the load intensity against moderate effort.
func CaloriesByExerciseName(name string, minutes, weightKg, bodyWeightKg float64) int {
	if minutes <= 0 {
		return 0
	}
	scale := MET(IntensityForLoad(weightKg, bodyWeightKg)) / MET(IntensityModerate)
	return int(minutes * CaloriesPerMinute(name) * scale)
}

// SessionCalories1RM sums the 1RM-based estimate over a session's exercises,
// deriving intensity from load and the 1RM from each entry itself.
func SessionCalories1RM(entries []models.ExerciseEntry, p models.Profile, now time.Time) int {
	total := 0
	age := p.Age(now)
	for _, e := range entries {
		total += CaloriesPerSet1RM(SetCalorieInput{
			Intensity:    IntensityForLoad(e.WeightKg, p.WeightKg),
			Sets:         e.Sets,
			WeightKg:     e.WeightKg,
			OneRepMax:    OneRepMax(e.WeightKg, e.Reps),
			RestSeconds:  defaultRestSeconds,
			BodyWeightKg: p.WeightKg,
			Age:          age,
			Sex:          p.Sex,
		})
	}
	return total
}

// BurnedCalories is the plain MET estimate for a whole activity.
func BurnedCalories(bodyWeightKg, durationMin float64, i Intensity) int {
	if durationMin <= 0 || bodyWeightKg <= 0 {
		return 0
	}
	return int(MET(i) * bodyWeightKg * (durationMin / 60) * metCorrection)
}
