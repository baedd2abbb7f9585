package recommend

import (
	"strings"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/progression"
)

// Strategy names reported on a RecommendationResult.
const (
	StrategyColdStart   = "cold_start"
	StrategySmartWeight = "smart_weight"
	StrategyLiveAdapt   = "live_adapt"
	StrategyTargetReps  = "target_reps"
)

const (
	recentWindow          = 3
	progressingMultiplier = 1.05
	stallingMultiplier    = 0.95
)

// seedWeights are cold-start loads per muscle group. They are starting points,
// not physiological estimates.
var seedWeights = map[string]float64{
	"pectoraux": 40,
	"chest":     40,
	"dos":       35,
	"back":      35,
	"jambes":    60,
	"legs":      60,
	"épaules":   20,
	"epaules":   20,
	"shoulders": 20,
	"bras":      15,
	"arms":      15,
}

// DefaultSeedWeight applies to muscle groups missing from the seed table.
const DefaultSeedWeight = 30.0

// SeedWeight returns the cold-start load for a muscle group.
func SeedWeight(muscleGroup string) float64 {
	if w, ok := seedWeights[strings.ToLower(strings.TrimSpace(muscleGroup))]; ok {
		return w
	}
	return DefaultSeedWeight
}

// recentFor returns the last n valid records for the machine, oldest first.
func recentFor(history []models.PerformanceRecord, name string, n int) []models.PerformanceRecord {
	var matched []models.PerformanceRecord
	for _, h := range history {
		if h.Exercise == name && h.Valid() {
			matched = append(matched, h)
		}
	}
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}

// SmartWeight derives the next working load from the machine's recent
// history. With no history for the machine it returns the muscle-group seed.
// The result always lies within the machine's bounds. history must be oldest
// first.
func SmartWeight(history []models.PerformanceRecord, m models.Machine, goal models.Goal) float64 {
	w, _ := smartWeight(history, m, goal)
	return w
}

func smartWeight(history []models.PerformanceRecord, m models.Machine, goal models.Goal) (float64, string) {
	recent := recentFor(history, m.Name, recentWindow)
	if len(recent) == 0 {
		return m.Clamp(SeedWeight(m.MuscleGroup)), StrategyColdStart
	}

	last := recent[len(recent)-1]
	target := estimate.OneRepMax(last.WeightKg, last.Reps) * SchemeFor(goal).LoadFraction
	if progression.IsProgressing(recent) {
		target *= progressingMultiplier
	} else {
		target *= stallingMultiplier
	}
	return m.Clamp(target), StrategySmartWeight
}

// AdaptLive adjusts the load between sets from the reps just completed
// against the target. It is independent of SmartWeight.
func AdaptLive(lastWeight float64, lastReps, targetReps int) float64 {
	switch {
	case lastReps >= targetReps+2:
		return lastWeight * 1.075
	case lastReps == targetReps+1:
		return lastWeight * 1.05
	case lastReps == targetReps:
		return lastWeight * 1.025
	case lastReps == targetReps-1:
		return lastWeight
	}
	return lastWeight * 0.95
}

// AdaptLiveForMachine is AdaptLive bounded to the machine's weight range.
func AdaptLiveForMachine(m models.Machine, lastWeight float64, lastReps, targetReps int) float64 {
	return m.Clamp(AdaptLive(lastWeight, lastReps, targetReps))
}

// WeightForTargetReps estimates the load for targetReps from the heaviest
// recorded performance of exercise. It returns 0 without history.
func WeightForTargetReps(history []models.PerformanceRecord, exercise string, targetReps int) float64 {
	var best models.PerformanceRecord
	found := false
	for _, h := range history {
		if h.Exercise != exercise || !h.Valid() {
			continue
		}
		if !found || h.WeightKg > best.WeightKg {
			best, found = h, true
		}
	}
	if !found {
		return 0
	}
	return estimate.WeightForReps(estimate.OneRepMax(best.WeightKg, best.Reps), targetReps)
}
