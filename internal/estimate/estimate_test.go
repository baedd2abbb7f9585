package estimate

import (
	"math"
	"testing"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestOneRepMax(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
		want   float64
	}{
		{"single rep returns weight", 100, 1, 100},
		{"zero reps treated as single", 100, 0, 100},
		{"ten reps", 100, 10, 133.37},
		{"five reps", 80, 5, 90.0},
		{"non-positive weight", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OneRepMax(tt.weight, tt.reps), 0.05)
		})
	}
}

// TestOneRepMaxHighReps verifies that absurd rep counts stay finite and positive.
func TestOneRepMaxHighReps(t *testing.T) {
	for _, reps := range []int{30, 36, 37, 50, 1000} {
		got := OneRepMax(100, reps)
		assert.False(t, math.IsInf(got, 0) || math.IsNaN(got), "reps=%d", reps)
		assert.Greater(t, got, 100.0, "reps=%d", reps)
	}
	assert.Equal(t, OneRepMax(100, MaxReps), OneRepMax(100, 500))
}

func TestWeightForReps(t *testing.T) {
	assert.InDelta(t, 100.0, WeightForReps(133.37, 10), 0.05)
	assert.Equal(t, 120.0, WeightForReps(120, 1))
	assert.GreaterOrEqual(t, WeightForReps(100, 200), 0.0)
}

func TestCaloriesPerSet1RM(t *testing.T) {
	base := SetCalorieInput{
		Intensity:    IntensityIntense,
		Sets:         3,
		WeightKg:     100,
		OneRepMax:    125,
		RestSeconds:  90,
		BodyWeightKg: 80,
		Age:          30,
		Sex:          models.SexMale,
	}

	t.Run("heavy intense set", func(t *testing.T) {
		assert.Equal(t, 64, CaloriesPerSet1RM(base))
	})

	t.Run("missing 1RM defaults to half load", func(t *testing.T) {
		in := base
		in.Intensity = IntensityModerate
		in.OneRepMax = 0
		in.Sex = models.SexFemale
		assert.Equal(t, 24, CaloriesPerSet1RM(in))
	})

	t.Run("english labels accepted", func(t *testing.T) {
		in := base
		in.Intensity = "intense"
		assert.Equal(t, CaloriesPerSet1RM(base), CaloriesPerSet1RM(in))
	})

	t.Run("older lifter burns less", func(t *testing.T) {
		in := base
		in.Age = 60
		assert.Less(t, CaloriesPerSet1RM(in), CaloriesPerSet1RM(base))
	})

	t.Run("no sets", func(t *testing.T) {
		in := base
		in.Sets = 0
		assert.Equal(t, 0, CaloriesPerSet1RM(in))
	})
}

func TestIntensityForLoad(t *testing.T) {
	assert.Equal(t, IntensityIntense, IntensityForLoad(100, 80))
	assert.Equal(t, IntensityModerate, IntensityForLoad(50, 80))
	assert.Equal(t, IntensityLight, IntensityForLoad(30, 80))
	assert.Equal(t, IntensityModerate, IntensityForLoad(30, 0))
}

func TestCaloriesByExerciseName(t *testing.T) {
	t.Run("unknown exercise uses default rate", func(t *testing.T) {
		assert.Equal(t, 60, CaloriesByExerciseName("Farmer walk", 10, 50, 80))
	})
	t.Run("heavy load scales up", func(t *testing.T) {
		assert.Equal(t, 128, CaloriesByExerciseName("Squat", 10, 100, 80))
	})
	t.Run("light load scales down", func(t *testing.T) {
		assert.Equal(t, 18, CaloriesByExerciseName("Curl biceps", 7, 10, 80))
	})
	t.Run("lookup is case sensitive", func(t *testing.T) {
		assert.Equal(t, DefaultCaloriesPerMinute, CaloriesPerMinute("squat"))
	})
	t.Run("zero duration", func(t *testing.T) {
		assert.Equal(t, 0, CaloriesByExerciseName("Squat", 0, 100, 80))
	})
}

// TestCalorieStrategiesDiffer verifies the two estimators give different
// results for the same exercise, so callers must pick one explicitly.
func TestCalorieStrategiesDiffer(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := models.Profile{BirthDate: time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC), WeightKg: 80, Sex: models.SexMale}
	entry := models.ExerciseEntry{Name: "Squat", Sets: 3, Reps: 8, WeightKg: 100}

	perSet := SessionCalories1RM([]models.ExerciseEntry{entry}, p, now)
	byName := CaloriesByExerciseName(entry.Name, 10, entry.WeightKg, p.WeightKg)
	assert.NotEqual(t, perSet, byName)
	assert.Greater(t, perSet, 0)
}

func TestEnergyNeeds(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	male := models.Profile{
		BirthDate: time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC),
		WeightKg:  80,
		HeightCm:  180,
		Sex:       models.SexMale,
		Activity:  models.ActivitySedentary,
		Goal:      models.GoalLoseWeight,
	}

	assert.InDelta(t, 1780.0, BasalMetabolicRate(male, now), 0.001)
	assert.InDelta(t, 2136, DailyCalories(male, now), 1)
	assert.InDelta(t, 1708, GoalCalories(male, now), 1)

	female := male
	female.Sex = models.SexFemale
	assert.InDelta(t, 1614.0, BasalMetabolicRate(female, now), 0.001)

	assert.InDelta(t, 24.69, BMI(80, 180), 0.01)
	assert.Equal(t, 0.0, BMI(80, 0))
}

func TestBurnedCalories(t *testing.T) {
	assert.InDelta(t, 420, BurnedCalories(80, 60, IntensityModerate), 1)
	assert.Equal(t, 0, BurnedCalories(80, 0, IntensityIntense))
}
