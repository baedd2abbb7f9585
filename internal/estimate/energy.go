package estimate

import (
	"time"

	"github.com/Worcesters/basicfit/internal/models"
)

// BMI returns the body-mass index, or 0 when height is unknown.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// BasalMetabolicRate uses the Mifflin-St Jeor equation.
func BasalMetabolicRate(p models.Profile, now time.Time) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age(now))
	if p.Sex.IsMale() {
		return bmr + 5
	}
	return bmr - 161
}

// DailyCalories is maintenance energy: BMR scaled by the activity level.
func DailyCalories(p models.Profile, now time.Time) int {
	return int(BasalMetabolicRate(p, now) * p.Activity.Factor())
}

// GoalCalories adjusts maintenance energy for the profile's goal.
func GoalCalories(p models.Profile, now time.Time) int {
	daily := float64(DailyCalories(p, now))
	switch p.Goal {
	case models.GoalLoseWeight:
		daily *= 0.8
	case models.GoalGainMass:
		daily *= 1.2
	case models.GoalCut:
		daily *= 0.75
	}
	return int(daily)
}
