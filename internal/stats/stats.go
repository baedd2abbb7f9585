// Package stats computes long-horizon rollups over a session history.
// Everything is recomputed from the full history on each call.
package stats

import (
	"slices"
	"strings"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
)

// Frequency labels.
const (
	FrequencyExcellent = "Excellent"
	FrequencyGood      = "Bon"
	FrequencyLow       = "À améliorer"
)

const windowDays = 30

// WeightTrend is the first and last recorded weight of one exercise.
type WeightTrend struct {
	Exercise    string    `json:"exercise"`
	FirstWeight float64   `json:"first_weight"`
	LastWeight  float64   `json:"last_weight"`
	FirstDate   time.Time `json:"first_date"`
	LastDate    time.Time `json:"last_date"`
	ChangePct   float64   `json:"change_pct"`
	Samples     int       `json:"samples"`
}

// ExerciseCount ranks an exercise by how often it was performed.
type ExerciseCount struct {
	Exercise string `json:"exercise"`
	Count    int    `json:"count"`
}

// MonthCount is the number of sessions in a calendar month ("2006-01").
type MonthCount struct {
	Month    string `json:"month"`
	Sessions int    `json:"sessions"`
}

// Report is the full statistics rollup.
type Report struct {
	TotalSessions     int             `json:"total_sessions"`
	TotalMinutes      int             `json:"total_minutes"`
	TotalVolume       float64         `json:"total_volume"`
	AverageDuration   float64         `json:"average_duration"`
	SessionsLast30    int             `json:"sessions_last_30_days"`
	FrequencyPerWeek  float64         `json:"frequency_per_week"`
	FrequencyLabel    string          `json:"frequency_label"`
	MaxWeight         float64         `json:"max_weight"`
	WeightTrends      []WeightTrend   `json:"weight_trends"`
	MuscleGroups      map[string]int  `json:"muscle_groups"`
	FavoriteExercises []ExerciseCount `json:"favorite_exercises"`
	Monthly           []MonthCount    `json:"monthly"`
}

// Aggregate rolls up history as of now. history may be in any order.
func Aggregate(history []models.SessionRecord, now time.Time) Report {
	sessions := slices.Clone(history)
	slices.SortStableFunc(sessions, func(a, b models.SessionRecord) int {
		return a.Date.Compare(b.Date)
	})

	r := Report{
		TotalSessions: len(sessions),
		MuscleGroups:  map[string]int{},
	}

	trends := map[string]*WeightTrend{}
	var trendOrder []string
	counts := map[string]int{}
	monthly := map[string]int{}
	var months []string

	for _, s := range sessions {
		r.TotalMinutes += s.DurationMin
		r.TotalVolume += s.TotalVolume
		if inWindow(s.Date, now) {
			r.SessionsLast30++
		}

		m := s.Date.Format("2006-01")
		if monthly[m] == 0 {
			months = append(months, m)
		}
		monthly[m]++

		for _, e := range s.Exercises {
			counts[e.Name]++
			r.MuscleGroups[MuscleGroupFor(e.Name)]++
			if e.WeightKg > r.MaxWeight {
				r.MaxWeight = e.WeightKg
			}

			tr, ok := trends[e.Name]
			if !ok {
				tr = &WeightTrend{Exercise: e.Name, FirstWeight: e.WeightKg, FirstDate: s.Date}
				trends[e.Name] = tr
				trendOrder = append(trendOrder, e.Name)
			}
			tr.LastWeight = e.WeightKg
			tr.LastDate = s.Date
			tr.Samples++
		}
	}

	if r.TotalSessions > 0 {
		r.AverageDuration = float64(r.TotalMinutes) / float64(r.TotalSessions)
	}
	r.FrequencyPerWeek = float64(r.SessionsLast30) * 7 / windowDays
	r.FrequencyLabel = FrequencyLabel(r.FrequencyPerWeek)

	for _, name := range trendOrder {
		tr := trends[name]
		if tr.FirstWeight > 0 {
			tr.ChangePct = (tr.LastWeight - tr.FirstWeight) / tr.FirstWeight * 100
		}
		r.WeightTrends = append(r.WeightTrends, *tr)
	}

	for name, n := range counts {
		r.FavoriteExercises = append(r.FavoriteExercises, ExerciseCount{Exercise: name, Count: n})
	}
	slices.SortFunc(r.FavoriteExercises, func(a, b ExerciseCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Exercise, b.Exercise)
	})

	for _, m := range months {
		r.Monthly = append(r.Monthly, MonthCount{Month: m, Sessions: monthly[m]})
	}
	return r
}

// inWindow reports whether d falls within the trailing 30 days before now.
func inWindow(d, now time.Time) bool {
	if d.After(now) {
		return false
	}
	return now.Sub(d) <= windowDays*24*time.Hour
}

// FrequencyLabel grades a sessions-per-week rate.
func FrequencyLabel(perWeek float64) string {
	switch {
	case perWeek >= 3:
		return FrequencyExcellent
	case perWeek >= 2:
		return FrequencyGood
	}
	return FrequencyLow
}

// Favorites returns the top n exercises.
func (r Report) Favorites(n int) []ExerciseCount {
	if n >= len(r.FavoriteExercises) {
		return r.FavoriteExercises
	}
	return r.FavoriteExercises[:n]
}
