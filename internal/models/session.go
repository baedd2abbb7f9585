package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PerformanceRecord is one completed effort on an exercise.
// Sets == 0 means a single implicit set.
type PerformanceRecord struct {
	Exercise string    `json:"exercise"`
	WeightKg float64   `json:"weight_kg"`
	Reps     int       `json:"reps"`
	Sets     int       `json:"sets,omitempty"`
	Time     time.Time `json:"time"`
}

// Volume is weight × reps for a single set.
func (p PerformanceRecord) Volume() float64 {
	return p.WeightKg * float64(p.Reps)
}

// TotalVolume is weight × reps × sets.
func (p PerformanceRecord) TotalVolume() float64 {
	sets := p.Sets
	if sets < 1 {
		sets = 1
	}
	return p.Volume() * float64(sets)
}

// Valid reports whether the record can feed the estimators.
func (p PerformanceRecord) Valid() bool {
	return p.Reps > 0 && p.WeightKg > 0
}

// SetRecord is a single logged set.
type SetRecord struct {
	Number           int     `json:"number"`
	WeightKg         float64 `json:"weight_kg"`
	Reps             int     `json:"reps"`
	RIR              float64 `json:"rir,omitempty"`
	IsWarmup         bool    `json:"is_warmup,omitempty"`
	IsBodyweightPlus bool    `json:"is_bodyweight_plus,omitempty"`
}

// ExerciseEntry is one exercise performed inside a session.
type ExerciseEntry struct {
	Name        string      `json:"name"`
	MuscleGroup string      `json:"muscle_group,omitempty"`
	Sets        int         `json:"sets"`
	Reps        int         `json:"reps"`
	WeightKg    float64     `json:"weight_kg"`
	SetLog      []SetRecord `json:"set_log,omitempty"`
}

// Volume is weight × reps × sets for the entry.
func (e ExerciseEntry) Volume() float64 {
	return e.WeightKg * float64(e.Reps) * float64(e.Sets)
}

// Performance converts the entry into a PerformanceRecord stamped at t.
func (e ExerciseEntry) Performance(t time.Time) PerformanceRecord {
	return PerformanceRecord{
		Exercise: e.Name,
		WeightKg: e.WeightKg,
		Reps:     e.Reps,
		Sets:     e.Sets,
		Time:     t,
	}
}

// SessionRecord is a persisted, completed workout. Records are never edited
// in place; a correction is stored as a new session.
type SessionRecord struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Date             time.Time       `json:"date"`
	DurationMin      int             `json:"duration_min"`
	Exercises        []ExerciseEntry `json:"exercises"`
	TotalVolume      float64         `json:"total_volume"`
	TotalCalories    int             `json:"total_calories"`
	PerformanceLabel string          `json:"performance_label,omitempty"`
}

// PerformanceHistory flattens sessions into performance records for one
// exercise, matched by exact name, oldest first.
func PerformanceHistory(sessions []SessionRecord, exercise string) []PerformanceRecord {
	var out []PerformanceRecord
	for _, s := range sessions {
		for _, e := range s.Exercises {
			if e.Name == exercise {
				out = append(out, e.Performance(s.Date))
			}
		}
	}
	slices.SortStableFunc(out, func(a, b PerformanceRecord) int {
		return a.Time.Compare(b.Time)
	})
	return out
}
