// Package summary builds the post-session report: duration, calories,
// volume, personal records, comparisons and an overall rating.
package summary

import (
	"strings"
	"time"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/progression"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/google/uuid"
)

// Ratings, per exercise and overall.
const (
	RatingExcellent = "Excellent"
	RatingVeryGood  = "Très bien"
	RatingGood      = "Bien"
	RatingImprove   = "À améliorer"
)

const executionMinutesPerSet = 2

// Input is everything needed to summarise a finished session. History holds
// the user's prior sessions in any order. Machines may be nil, in which case
// next-load hints use generic machine bounds.
type Input struct {
	Name      string
	Date      time.Time
	Exercises []models.ExerciseEntry
	Profile   models.Profile
	History   []models.SessionRecord
	Machines  recommend.MachineFinder
}

// ExerciseRating is the per-exercise verdict.
type ExerciseRating struct {
	Exercise   string `json:"exercise"`
	TargetReps int    `json:"target_reps"`
	Reps       int    `json:"reps"`
	Rating     string `json:"rating"`
}

// NextLoad is the load hint for the next session on one exercise.
type NextLoad struct {
	Exercise    string  `json:"exercise"`
	SuccessRate float64 `json:"success_rate"`
	WeightKg    float64 `json:"weight_kg"`
	Advance     bool    `json:"advance"`
}

// Summary is the post-session report. TotalCalories uses the per-name rate
// table; Calories1RM is the per-set estimate scaled by load against the 1RM.
type Summary struct {
	Name             string                    `json:"name"`
	Date             time.Time                 `json:"date"`
	DurationMin      int                       `json:"duration_min"`
	TotalCalories    int                       `json:"total_calories"`
	Calories1RM      int                       `json:"calories_1rm"`
	TotalVolume      float64                   `json:"total_volume"`
	Exercises        []models.ExerciseEntry    `json:"exercises"`
	Records          []progression.RecordEvent `json:"records"`
	Comparisons      []models.ComparisonResult `json:"comparisons"`
	Ratings          []ExerciseRating          `json:"ratings"`
	NextLoads        []NextLoad                `json:"next_loads,omitempty"`
	PerformanceLabel string                    `json:"performance_label"`
}

// Build computes the summary for a finished session.
func Build(in Input) Summary {
	s := Summary{
		Name:      in.Name,
		Date:      in.Date,
		Exercises: in.Exercises,
	}

	earlier := sessionsBefore(in.History, in.Date)
	for _, e := range in.Exercises {
		minutes := ExerciseMinutes(e)
		s.DurationMin += minutes
		s.TotalCalories += estimate.CaloriesByExerciseName(e.Name, float64(minutes), e.WeightKg, in.Profile.WeightKg)
		s.TotalVolume += e.Volume()

		prior := models.PerformanceHistory(earlier, e.Name)
		if ev := progression.CheckPersonalRecord(e.Performance(in.Date), prior); ev != nil {
			s.Records = append(s.Records, *ev)
		}

		s.Ratings = append(s.Ratings, RateExercise(e))
		if e.WeightKg > 0 {
			s.NextLoads = append(s.NextLoads, nextLoad(e, machineFor(in.Machines, e.Name)))
		}
	}

	s.Calories1RM = estimate.SessionCalories1RM(in.Exercises, in.Profile, in.Date)
	s.Comparisons = Compare(in.Exercises, PreviousSession(in.History, in.Name, in.Date))
	s.PerformanceLabel = OverallLabel(s.Ratings)
	return s
}

func sessionsBefore(history []models.SessionRecord, t time.Time) []models.SessionRecord {
	var out []models.SessionRecord
	for _, h := range history {
		if h.Date.Before(t) {
			out = append(out, h)
		}
	}
	return out
}

func machineFor(f recommend.MachineFinder, name string) models.Machine {
	if f != nil {
		if m, ok := f.Find(name); ok {
			return m
		}
	}
	return recommend.GenericMachine(name)
}

// nextLoad applies the machine progression rule to the sets just logged.
// Entries without a set log count as Sets identical sets.
func nextLoad(e models.ExerciseEntry, m models.Machine) NextLoad {
	sets := e.SetLog
	if len(sets) == 0 {
		for i := 0; i < e.Sets; i++ {
			sets = append(sets, models.SetRecord{Number: i + 1, WeightKg: e.WeightKg, Reps: e.Reps})
		}
	}
	target := TargetReps(e.Name)
	next, ok := progression.NextIncrement(m, e.WeightKg, sets, target, progression.DefaultSuccessThreshold)
	return NextLoad{
		Exercise:    e.Name,
		SuccessRate: progression.SuccessRate(sets, target),
		WeightKg:    next,
		Advance:     ok,
	}
}

// ExerciseMinutes is the time spent on an exercise: two minutes per set plus
// the category rest between sets.
func ExerciseMinutes(e models.ExerciseEntry) int {
	if e.Sets <= 0 {
		return 0
	}
	restMin := float64(recommend.RestSeconds(e.Name)) / 60
	return int(float64(e.Sets*executionMinutesPerSet) + float64(e.Sets-1)*restMin)
}

// PreviousSession returns the most recent session named name dated before
// the given time, or nil.
func PreviousSession(history []models.SessionRecord, name string, before time.Time) *models.SessionRecord {
	var prev *models.SessionRecord
	for i := range history {
		h := &history[i]
		if h.Name != name || !h.Date.Before(before) {
			continue
		}
		if prev == nil || h.Date.After(prev.Date) {
			prev = h
		}
	}
	return prev
}

// Compare matches current exercises against prev by exact name. Volume here
// is weight × reps for one set.
func Compare(current []models.ExerciseEntry, prev *models.SessionRecord) []models.ComparisonResult {
	if prev == nil {
		return nil
	}
	var out []models.ComparisonResult
	for _, e := range current {
		p, ok := findExercise(prev.Exercises, e.Name)
		if !ok {
			continue
		}
		change := volumeChange(e.WeightKg*float64(e.Reps), p.WeightKg*float64(p.Reps))
		out = append(out, models.ComparisonResult{
			Exercise:        e.Name,
			CurrentWeight:   e.WeightKg,
			PreviousWeight:  p.WeightKg,
			CurrentReps:     e.Reps,
			PreviousReps:    p.Reps,
			VolumeChangePct: change,
			IsImprovement:   change > 0,
		})
	}
	return out
}

func findExercise(entries []models.ExerciseEntry, name string) (models.ExerciseEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return models.ExerciseEntry{}, false
}

// volumeChange is the percent change from prev to cur. A zero previous
// volume counts as +100% when anything was lifted now, 0 otherwise.
func volumeChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return (cur - prev) / prev * 100
}

// TargetReps is the rep target used for rating an exercise.
func TargetReps(name string) int {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "squat"):
		return 8
	case strings.Contains(n, "développé"), strings.Contains(n, "developpe"),
		strings.Contains(n, "press"), strings.Contains(n, "tirage"), strings.Contains(n, "pulldown"):
		return 12
	}
	return 10
}

// RateExercise compares actual reps against the exercise's target.
func RateExercise(e models.ExerciseEntry) ExerciseRating {
	target := TargetReps(e.Name)
	r := ExerciseRating{Exercise: e.Name, TargetReps: target, Reps: e.Reps}
	switch {
	case e.Reps >= target+2:
		r.Rating = RatingExcellent
	case e.Reps >= target:
		r.Rating = RatingVeryGood
	case e.Reps >= target-1:
		r.Rating = RatingGood
	default:
		r.Rating = RatingImprove
	}
	return r
}

// OverallLabel rates the session from the share of excellent exercises.
func OverallLabel(ratings []ExerciseRating) string {
	if len(ratings) == 0 {
		return RatingGood
	}
	excellent := 0
	for _, r := range ratings {
		if r.Rating == RatingExcellent {
			excellent++
		}
	}
	share := float64(excellent) / float64(len(ratings))
	switch {
	case share >= 0.7:
		return RatingExcellent
	case share >= 0.4:
		return RatingVeryGood
	}
	return RatingGood
}

// Record converts the summary into a persistable session.
func (s Summary) Record() models.SessionRecord {
	return models.SessionRecord{
		ID:               uuid.New(),
		Name:             s.Name,
		Date:             s.Date,
		DurationMin:      s.DurationMin,
		Exercises:        s.Exercises,
		TotalVolume:      s.TotalVolume,
		TotalCalories:    s.TotalCalories,
		PerformanceLabel: s.PerformanceLabel,
	}
}
