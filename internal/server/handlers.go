package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/Worcesters/basicfit/internal/stats"
	"github.com/Worcesters/basicfit/internal/storage"
	"github.com/Worcesters/basicfit/internal/summary"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetProfile(r.Context(), userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if p.WeightKg < 0 || p.HeightCm < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight and height must not be negative"})
		return
	}
	if p.Goal != "" {
		p.Goal = models.ParseGoal(string(p.Goal))
	}

	if err := s.db.UpsertProfile(r.Context(), p, userIDFromContext(r)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// profileOrEmpty loads the caller's profile. A missing profile is not an
// error: the engine works with defaults.
func (s *Server) profileOrEmpty(r *http.Request) (models.Profile, error) {
	p, err := s.db.GetProfile(r.Context(), userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return *p, nil
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	machine := r.URL.Query().Get("machine")
	if machine == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "machine parameter required"})
		return
	}
	targetReps, err := positiveIntParam(r, "target_reps")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	profile, err := s.profileOrEmpty(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	goal := profile.Goal
	if g := r.URL.Query().Get("goal"); g != "" {
		goal = models.ParseGoal(g)
	}
	if goal == "" {
		goal = models.GoalMaintain
	}

	history, err := s.db.ExerciseHistory(r.Context(), machine, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	res := s.engine.Recommend(profile, history, machine, goal)
	if targetReps > 0 {
		if load := s.engine.ForTargetReps(history, machine, targetReps); load > 0 {
			res.Reps = targetReps
			res.WeightKg = load
			res.PlateWeightKg = s.engine.Machine(machine).Snap(load)
			res.Strategy = recommend.StrategyTargetReps
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// positiveIntParam reads an optional positive integer query parameter.
// Absent means 0.
func positiveIntParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

type adaptRequest struct {
	Machine    string  `json:"machine"`
	LastWeight float64 `json:"last_weight"`
	LastReps   int     `json:"last_reps"`
	TargetReps int     `json:"target_reps"`
}

type adaptResponse struct {
	Machine       string  `json:"machine"`
	WeightKg      float64 `json:"weight_kg"`
	PlateWeightKg float64 `json:"plate_weight_kg"`
	OneRepMax     float64 `json:"one_rep_max"`
	SetCalories   int     `json:"set_calories"`
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	var req adaptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Machine == "" || req.TargetReps <= 0 || req.LastWeight < 0 || req.LastReps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "machine, last_weight, last_reps and target_reps are required"})
		return
	}

	profile, err := s.profileOrEmpty(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.db.ExerciseHistory(r.Context(), req.Machine, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	weight := s.engine.Adapt(req.Machine, req.LastWeight, req.LastReps, req.TargetReps)
	kcal, oneRM := recommend.SetCalories(profile, history, req.Machine, req.LastWeight, req.LastReps, s.now())
	writeJSON(w, http.StatusOK, adaptResponse{
		Machine:       req.Machine,
		WeightKg:      weight,
		PlateWeightKg: s.engine.Machine(req.Machine).Snap(weight),
		OneRepMax:     oneRM,
		SetCalories:   kcal,
	})
}

type createSessionRequest struct {
	Name      string                 `json:"name"`
	Date      time.Time              `json:"date"`
	Exercises []models.ExerciseEntry `json:"exercises"`
}

type createSessionResponse struct {
	ID      uuid.UUID       `json:"id"`
	Summary summary.Summary `json:"summary"`
	Advice  []string        `json:"advice"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := validateSession(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = s.now()
	}
	for i := range req.Exercises {
		if req.Exercises[i].MuscleGroup == "" {
			req.Exercises[i].MuscleGroup = stats.MuscleGroupFor(req.Exercises[i].Name)
		}
	}

	uid := userIDFromContext(r)
	profile, err := s.profileOrEmpty(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.db.AllSessions(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sum := summary.Build(summary.Input{
		Name:      req.Name,
		Date:      req.Date,
		Exercises: req.Exercises,
		Profile:   profile,
		History:   history,
		Machines:  s.catalog,
	})
	rec := sum.Record()

	inserted, err := s.db.InsertSession(r.Context(), rec, storage.SourceApp, uid)
	if err != nil {
		s.log.Error("storing session", "name", rec.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already recorded"})
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveSession(sum.Records)
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		ID:      rec.ID,
		Summary: sum,
		Advice:  summary.Advice(sum, profile),
	})
}

func validateSession(req createSessionRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if len(req.Exercises) == 0 {
		return errors.New("at least one exercise is required")
	}
	for _, e := range req.Exercises {
		if e.Name == "" {
			return errors.New("exercise name is required")
		}
		if e.Sets < 1 || e.Reps < 1 {
			return fmt.Errorf("exercise %q: sets and reps must be at least 1", e.Name)
		}
		if e.WeightKg < 0 {
			return fmt.Errorf("exercise %q: weight must not be negative", e.Name)
		}
	}
	return nil
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), start, end, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	rec, err := s.db.GetSession(r.Context(), id, userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}

	history, err := s.db.ExerciseHistory(r.Context(), exercise, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if history == nil {
		history = []models.PerformanceRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	top, err := positiveIntParam(r, "top")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.db.AllSessions(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	report := stats.Aggregate(history, s.now())
	if top > 0 {
		report.FavoriteExercises = report.Favorites(top)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "1 week"
	switch r.URL.Query().Get("agg") {
	case "monthly":
		bucket = "1 month"
	case "weekly", "":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "agg must be weekly or monthly"})
		return
	}

	periods, err := s.db.GetVolumeSummary(r.Context(), start, end, bucket, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

type caloriesResponse struct {
	BMI            float64 `json:"bmi"`
	BMR            float64 `json:"bmr"`
	DailyCalories  int     `json:"daily_calories"`
	GoalCalories   int     `json:"goal_calories"`
	TrainingBurned int     `json:"training_burned"`
}

func (s *Server) handleDailyCalories(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetProfile(r.Context(), userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	now := s.now()
	resp := caloriesResponse{
		BMI:           estimate.BMI(p.WeightKg, p.HeightCm),
		BMR:           estimate.BasalMetabolicRate(*p, now),
		DailyCalories: estimate.DailyCalories(*p, now),
		GoalCalories:  estimate.GoalCalories(*p, now),
	}

	// Training calories burned today, from stored sessions.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.db.QuerySessions(r.Context(), dayStart, dayStart.Add(24*time.Hour), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Sessions stored without a calorie figure fall back to a moderate MET
	// estimate over their duration.
	for _, sess := range today {
		if sess.TotalCalories > 0 {
			resp.TrainingBurned += sess.TotalCalories
			continue
		}
		resp.TrainingBurned += estimate.BurnedCalories(p.WeightKg, float64(sess.DurationMin), estimate.IntensityModerate)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ds, err := s.db.GetDataStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = parseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end is before start")
	}
	return
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
