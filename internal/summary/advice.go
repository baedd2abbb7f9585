package summary

import (
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/recommend"
)

const (
	adviceShort        = "Séance courte ! Essayez d'augmenter la durée à 45-60 minutes pour maximiser les gains."
	adviceLong         = "Séance longue. Veillez à maintenir l'intensité sur toute la durée."
	adviceGreat        = "Excellente progression ! Continuez sur cette lancée."
	adviceGood         = "Bonne progression. Concentrez-vous sur les exercices où vous stagnez."
	adviceLimited      = "Progression limitée. Pensez à varier les exercices ou augmenter l'intensité."
	adviceMass         = "Pour la prise de masse : visez 8-12 répétitions avec des charges lourdes."
	adviceMassRest     = "Augmentez les temps de repos à 90-120 secondes pour optimiser la récupération."
	adviceStrength     = "Pour la force : privilégiez 1-5 répétitions avec charges maximales."
	adviceStrengthRest = "Repos de 3-5 minutes recommandés entre les séries."
	adviceEndurance    = "Pour l'endurance : 15-25 répétitions avec repos courts (30-60s)."
	adviceCut          = "Pour la sèche : maintenir l'intensité tout en augmentant le volume d'entraînement."
	adviceNutrition    = "N'oubliez pas votre nutrition post-entraînement dans les 30 minutes suivant la séance !"
)

// Advice returns the coaching lines shown after a session.
func Advice(s Summary, p models.Profile) []string {
	var out []string

	switch {
	case s.DurationMin < 30:
		out = append(out, adviceShort)
	case s.DurationMin > 90:
		out = append(out, adviceLong)
	}

	switch rate := ImprovementRate(s.Comparisons); {
	case rate >= 0.8:
		out = append(out, adviceGreat)
	case rate >= 0.5:
		out = append(out, adviceGood)
	default:
		out = append(out, adviceLimited)
	}

	switch p.Goal {
	case models.GoalGainMass:
		out = append(out, adviceMass)
		if AverageRestSeconds(s.Exercises) < 90 {
			out = append(out, adviceMassRest)
		}
	case models.GoalStrength:
		out = append(out, adviceStrength, adviceStrengthRest)
	case models.GoalEndurance:
		out = append(out, adviceEndurance)
	case models.GoalCut:
		out = append(out, adviceCut)
	}

	return append(out, adviceNutrition)
}

// ImprovementRate is the share of comparisons that improved, 0 without any.
func ImprovementRate(comparisons []models.ComparisonResult) float64 {
	if len(comparisons) == 0 {
		return 0
	}
	n := 0
	for _, c := range comparisons {
		if c.IsImprovement {
			n++
		}
	}
	return float64(n) / float64(len(comparisons))
}

// AverageRestSeconds averages the category rest across exercises.
func AverageRestSeconds(entries []models.ExerciseEntry) int {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += recommend.RestSeconds(e.Name)
	}
	return total / len(entries)
}
