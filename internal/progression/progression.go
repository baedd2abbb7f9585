// Package progression classifies performance trends and detects personal records.
package progression

import (
	"fmt"

	"github.com/Worcesters/basicfit/internal/models"
)

// Trend is the direction of the two most recent performances.
type Trend string

const (
	TrendProgressing Trend = "progressing"
	TrendFlat        Trend = "flat"
	TrendRegressing  Trend = "regressing"
)

// IsProgressing compares the last two records of a chronological history.
// Fewer than two records counts as progressing.
func IsProgressing(history []models.PerformanceRecord) bool {
	if len(history) < 2 {
		return true
	}
	prev := history[len(history)-2]
	last := history[len(history)-1]

	lastVol, prevVol := last.Volume(), prev.Volume()
	switch {
	case lastVol > prevVol:
		return true
	case lastVol == prevVol && last.Reps >= prev.Reps:
		return true
	case last.WeightKg > prev.WeightKg:
		return true
	}
	return false
}

// flatTolerance is the relative volume drop still reported as flat.
const flatTolerance = 0.05

// Classify refines IsProgressing for reporting. It returns TrendProgressing
// exactly when IsProgressing does; a non-progressing pair whose volume fell
// by less than 5% is flat.
func Classify(history []models.PerformanceRecord) Trend {
	if IsProgressing(history) {
		return TrendProgressing
	}
	prevVol := history[len(history)-2].Volume()
	lastVol := history[len(history)-1].Volume()
	if lastVol >= prevVol*(1-flatTolerance) {
		return TrendFlat
	}
	return TrendRegressing
}

// RecordKind identifies what a personal record was set on.
type RecordKind string

const (
	RecordFirstTime RecordKind = "first_time"
	RecordVolume    RecordKind = "volume"
	RecordWeight    RecordKind = "weight"
)

// RecordEvent is emitted when a performance beats every prior one.
type RecordEvent struct {
	Exercise string     `json:"exercise"`
	Kind     RecordKind `json:"kind"`
	Value    float64    `json:"value"`
}

// Message renders the coaching line shown to the user.
func (e RecordEvent) Message() string {
	switch e.Kind {
	case RecordVolume:
		return fmt.Sprintf("%s : Nouveau record de volume (%skg)", e.Exercise, formatKg(e.Value))
	case RecordWeight:
		return fmt.Sprintf("%s : Nouveau record de poids (%skg)", e.Exercise, formatKg(e.Value))
	}
	return fmt.Sprintf("%s : Premier exercice enregistré !", e.Exercise)
}

func formatKg(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// CheckPersonalRecord compares current against every prior performance of the
// same exercise. Volume records take priority over weight records and at most
// one event is returned.
func CheckPersonalRecord(current models.PerformanceRecord, prior []models.PerformanceRecord) *RecordEvent {
	if len(prior) == 0 {
		return &RecordEvent{Exercise: current.Exercise, Kind: RecordFirstTime}
	}

	var maxVol, maxWeight float64
	for _, p := range prior {
		if v := p.Volume(); v > maxVol {
			maxVol = v
		}
		if p.WeightKg > maxWeight {
			maxWeight = p.WeightKg
		}
	}

	if v := current.Volume(); v > maxVol {
		return &RecordEvent{Exercise: current.Exercise, Kind: RecordVolume, Value: v}
	}
	if current.WeightKg > maxWeight {
		return &RecordEvent{Exercise: current.Exercise, Kind: RecordWeight, Value: current.WeightKg}
	}
	return nil
}
