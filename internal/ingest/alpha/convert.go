package alpha

import "github.com/Worcesters/basicfit/internal/models"

// Entry collapses an exercise block into the engine's entry shape: Sets is
// the working set count, WeightKg the heaviest working weight and Reps the
// best rep count achieved at that weight. Warmups are kept in SetLog only.
func (e Exercise) Entry() models.ExerciseEntry {
	out := models.ExerciseEntry{Name: e.Name, SetLog: e.Sets}
	for _, s := range e.Sets {
		if s.IsWarmup {
			continue
		}
		out.Sets++
		switch {
		case s.WeightKg > out.WeightKg:
			out.WeightKg = s.WeightKg
			out.Reps = s.Reps
		case s.WeightKg == out.WeightKg && s.Reps > out.Reps:
			out.Reps = s.Reps
		}
	}
	return out
}

// WorkingSets counts the non-warmup sets.
func (e Exercise) WorkingSets() int {
	n := 0
	for _, s := range e.Sets {
		if !s.IsWarmup {
			n++
		}
	}
	return n
}

// Entries converts every exercise that has at least one working set.
func (s Session) Entries() []models.ExerciseEntry {
	var out []models.ExerciseEntry
	for _, e := range s.Exercises {
		if e.WorkingSets() == 0 {
			continue
		}
		out = append(out, e.Entry())
	}
	return out
}

// DurationMin is the exported session duration in minutes, 0 if unknown.
func (s Session) DurationMin() int {
	return parseDurationMinutes(s.Duration)
}
