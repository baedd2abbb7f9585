// Package recommend turns a profile, a machine and its performance history
// into a prescription for the next working sets.
package recommend

import (
	"strings"

	"github.com/Worcesters/basicfit/internal/models"
)

// Scheme is the set/rep/rest prescription a goal implies.
type Scheme struct {
	Sets         int
	Reps         int
	RestSeconds  int
	LoadFraction float64
	notes        []string
}

var schemes = map[models.Goal]Scheme{
	models.GoalStrength: {5, 5, 180, 0.85, []string{
		"Concentrez-vous sur la technique",
		"Charges lourdes, mouvement contrôlé",
		"Repos complet entre séries",
	}},
	models.GoalGainMass: {4, 10, 90, 0.75, []string{
		"Tempo : 3 sec descente, 1 sec montée",
		"Maximisez la tension musculaire",
		"Échauffement important",
	}},
	models.GoalEndurance: {3, 20, 60, 0.60, []string{
		"Rythme soutenu",
		"Charges modérées",
		"Repos courts",
	}},
	models.GoalCut: {4, 15, 75, 0.70, []string{
		"Intensité élevée",
		"Superset recommandé",
		"Brûlage maximal",
	}},
}

var defaultScheme = Scheme{3, 12, 90, 0.75, []string{
	"Contrôlez le mouvement",
	"Respirez régulièrement",
}}

// SchemeFor returns the prescription for goal, independent of history.
func SchemeFor(goal models.Goal) Scheme {
	if s, ok := schemes[goal]; ok {
		return s
	}
	return defaultScheme
}

const (
	noteLongWarmup  = "Échauffement prolongé recommandé"
	noteSupervision = "⚠️ Supervision recommandée"
	noteSeparator   = " • "
)

// Notes builds the coaching line for a goal, age and machine.
func Notes(goal models.Goal, age int, m models.Machine) string {
	notes := append([]string(nil), SchemeFor(goal).notes...)
	if age > 50 {
		notes = append(notes, noteLongWarmup)
	}
	if m.NeedsSupervision {
		notes = append(notes, noteSupervision)
	}
	return strings.Join(notes, noteSeparator)
}
