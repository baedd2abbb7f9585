package recommend

import (
	"time"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
)

// SetCalories estimates kcal for one completed set with the per-set 1RM
// strategy. The 1RM is the best Brzycki estimate over the exercise history
// and the set itself.
func SetCalories(p models.Profile, history []models.PerformanceRecord, exercise string, weight float64, reps int, now time.Time) (kcal int, oneRM float64) {
	oneRM = estimate.OneRepMax(weight, reps)
	for _, h := range history {
		if h.Exercise != exercise || !h.Valid() {
			continue
		}
		if v := estimate.OneRepMax(h.WeightKg, h.Reps); v > oneRM {
			oneRM = v
		}
	}

	kcal = estimate.CaloriesPerSet1RM(estimate.SetCalorieInput{
		Intensity:    estimate.IntensityForLoad(weight, p.WeightKg),
		Sets:         1,
		WeightKg:     weight,
		OneRepMax:    oneRM,
		RestSeconds:  RestSeconds(exercise),
		BodyWeightKg: p.WeightKg,
		Age:          p.Age(now),
		Sex:          p.Sex,
	})
	return kcal, oneRM
}
