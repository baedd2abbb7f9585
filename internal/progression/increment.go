package progression

import "github.com/Worcesters/basicfit/internal/models"

// DefaultSuccessThreshold is the share of sets (percent) that must reach the
// target reps before the load advances.
const DefaultSuccessThreshold = 90.0

// SetSuccess is the completion percentage of one set, capped at 100.
func SetSuccess(done, planned int) float64 {
	if planned <= 0 {
		return 0
	}
	pct := float64(done) / float64(planned) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// SuccessRate is the percentage of working sets that reached targetReps.
// Warmup sets are ignored.
func SuccessRate(sets []models.SetRecord, targetReps int) float64 {
	var working, hit int
	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		working++
		if SetSuccess(s.Reps, targetReps) >= 100 {
			hit++
		}
	}
	if working == 0 {
		return 0
	}
	return float64(hit) / float64(working) * 100
}

// NextIncrement returns the load for the next session under the machine
// progression rule: advance by one increment once the success rate reaches
// threshold, as long as the machine can carry it. ok is false when the load
// stays put.
func NextIncrement(m models.Machine, current float64, sets []models.SetRecord, targetReps int, threshold float64) (next float64, ok bool) {
	if threshold <= 0 {
		threshold = DefaultSuccessThreshold
	}
	if m.Increment <= 0 || SuccessRate(sets, targetReps) < threshold {
		return current, false
	}
	next = current + m.Increment
	if next > m.WeightMax {
		return current, false
	}
	return next, true
}
