package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Worcesters/basicfit/internal/catalog"
	"github.com/Worcesters/basicfit/internal/metrics"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/Worcesters/basicfit/internal/stats"
	"github.com/Worcesters/basicfit/internal/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "secret"

type fakeStore struct {
	profile    *models.Profile
	sessions   []models.SessionRecord
	history    []models.PerformanceRecord
	importLogs []storage.ImportLog
}

func (f *fakeStore) GetOrCreateUser(context.Context, string, string) (int, error) {
	return storage.DefaultUserID, nil
}

func (f *fakeStore) GetProfile(context.Context, int) (*models.Profile, error) {
	if f.profile == nil {
		return nil, storage.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p models.Profile, _ int) error {
	f.profile = &p
	return nil
}

func (f *fakeStore) InsertSession(_ context.Context, rec models.SessionRecord, _ string, _ int) (bool, error) {
	for _, s := range f.sessions {
		if s.Name == rec.Name && s.Date.Equal(rec.Date) {
			return false, nil
		}
	}
	f.sessions = append(f.sessions, rec)
	return true, nil
}

func (f *fakeStore) QuerySessions(_ context.Context, start, end time.Time, _ int) ([]models.SessionRecord, error) {
	var out []models.SessionRecord
	for _, s := range f.sessions {
		if !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) AllSessions(context.Context, int) ([]models.SessionRecord, error) {
	return append([]models.SessionRecord(nil), f.sessions...), nil
}

func (f *fakeStore) GetSession(_ context.Context, id uuid.UUID, _ int) (*models.SessionRecord, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			return &f.sessions[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ExerciseHistory(_ context.Context, exercise string, _ int) ([]models.PerformanceRecord, error) {
	var out []models.PerformanceRecord
	for _, h := range f.history {
		if h.Exercise == exercise {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) GetVolumeSummary(context.Context, time.Time, time.Time, string, int) ([]storage.VolumePeriod, error) {
	return []storage.VolumePeriod{}, nil
}

func (f *fakeStore) GetDataStats(context.Context, int) (*storage.DataStats, error) {
	return &storage.DataStats{TotalSessions: int64(len(f.sessions))}, nil
}

func (f *fakeStore) InsertImportLog(_ context.Context, l storage.ImportLog) (int64, error) {
	f.importLogs = append(f.importLogs, l)
	return int64(len(f.importLogs)), nil
}

func (f *fakeStore) QueryImportLogs(context.Context, int, int) ([]storage.ImportLog, error) {
	return f.importLogs, nil
}

func newTestServer(t *testing.T, store *fakeStore, m *metrics.Manager) *Server {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	s := New(store, cat, m, testAPIKey, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC) }
	return s
}

func do(s *Server, method, target, body string, withKey bool) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	rec := do(s, http.MethodGet, "/api/v1/me", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var info UserInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "local", info.Login)
	assert.Equal(t, "Local Dev User", info.DisplayName)
}

func TestRecommendationRequiresMachine(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	rec := do(s, http.MethodGet, "/api/v1/recommendations", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationColdStart(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	rec := do(s, http.MethodGet, "/api/v1/recommendations?machine="+url.QueryEscape("Développé couché")+"&goal=force", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.RecommendationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, recommend.StrategyColdStart, res.Strategy)
	assert.Equal(t, 40.0, res.WeightKg)
	assert.Equal(t, 5, res.Sets)
	assert.Equal(t, 5, res.Reps)
}

func TestRecommendationUsesHistory(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	store := &fakeStore{history: []models.PerformanceRecord{
		{Exercise: "Développé couché", WeightKg: 60, Reps: 10, Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Exercise: "Développé couché", WeightKg: 62.5, Reps: 10, Time: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
	}}
	s := newTestServer(t, store, m)
	s.MountMetrics(reg)

	rec := do(s, http.MethodGet, "/api/v1/recommendations?machine="+url.QueryEscape("Développé couché"), "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.RecommendationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, recommend.StrategySmartWeight, res.Strategy)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRecommendations.WithLabelValues(recommend.StrategySmartWeight)))
}

func TestAdapt(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	rec := do(s, http.MethodPost, "/api/v1/recommendations/adapt",
		`{"machine":"Machine inconnue","last_weight":100,"last_reps":12,"target_reps":10}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var res adaptResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.InDelta(t, 107.5, res.WeightKg, 1e-9)
	assert.InDelta(t, 107.5, res.PlateWeightKg, 1e-9)
}

func TestAdaptSetCalories(t *testing.T) {
	store := &fakeStore{
		profile: &models.Profile{
			BirthDate: time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC),
			WeightKg:  80,
			Sex:       models.SexMale,
		},
		history: []models.PerformanceRecord{
			{Exercise: "Développé couché", WeightKg: 100, Reps: 8, Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	s := newTestServer(t, store, nil)
	rec := do(s, http.MethodPost, "/api/v1/recommendations/adapt",
		`{"machine":"Développé couché","last_weight":100,"last_reps":5,"target_reps":5}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res adaptResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.InDelta(t, 102.5, res.WeightKg, 1e-9)
	// best 1RM comes from the stored 100x8, not the 100x5 just done
	assert.InDelta(t, 124.16, res.OneRepMax, 0.01)
	assert.Equal(t, 9, res.SetCalories)
}

func TestRecommendationTargetReps(t *testing.T) {
	store := &fakeStore{history: []models.PerformanceRecord{
		{Exercise: "Développé couché", WeightKg: 100, Reps: 5, Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}}
	s := newTestServer(t, store, nil)
	bench := url.QueryEscape("Développé couché")

	rec := do(s, http.MethodGet, "/api/v1/recommendations?machine="+bench+"&target_reps=12", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.RecommendationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, recommend.StrategyTargetReps, res.Strategy)
	assert.Equal(t, 12, res.Reps)
	assert.InDelta(t, 78.1, res.WeightKg, 0.1)

	// no history for the machine: the regular recommendation stands
	rec = do(s, http.MethodGet, "/api/v1/recommendations?machine=Squat&target_reps=12", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	res = models.RecommendationResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, recommend.StrategyColdStart, res.Strategy)

	for _, bad := range []string{"0", "-3", "douze"} {
		rec = do(s, http.MethodGet, "/api/v1/recommendations?machine="+bench+"&target_reps="+bad, "", false)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestAdaptBadInput(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	for _, body := range []string{
		`not json`,
		`{"machine":"","last_weight":100,"last_reps":10,"target_reps":10}`,
		`{"machine":"Curl","last_weight":100,"last_reps":10,"target_reps":0}`,
		`{"machine":"Curl","last_weight":-5,"last_reps":10,"target_reps":10}`,
	} {
		rec := do(s, http.MethodPost, "/api/v1/recommendations/adapt", body, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

const sessionBody = `{
	"name": "Push",
	"date": "2024-06-18T18:00:00Z",
	"exercises": [
		{"name": "Développé couché", "sets": 3, "reps": 10, "weight_kg": 60},
		{"name": "Extension triceps", "sets": 3, "reps": 12, "weight_kg": 20}
	]
}`

func TestCreateSessionRequiresAPIKey(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store, nil)

	rec := do(s, http.MethodPost, "/api/v1/sessions", sessionBody, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(sessionBody))
	req.Header.Set("X-API-Key", "wrong")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	assert.Empty(t, store.sessions)
}

func TestCreateSession(t *testing.T) {
	m := metrics.NewTestManager()
	store := &fakeStore{profile: &models.Profile{WeightKg: 80, Goal: models.GoalGainMass}}
	s := newTestServer(t, store, m)

	rec := do(s, http.MethodPost, "/api/v1/sessions", sessionBody, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res createSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 2520.0, res.Summary.TotalVolume)
	assert.Len(t, res.Summary.Records, 2, "first time on both exercises")
	assert.NotEmpty(t, res.Advice)

	require.Len(t, store.sessions, 1)
	stored := store.sessions[0]
	assert.Equal(t, models.MuscleChest, stored.Exercises[0].MuscleGroup)
	assert.Equal(t, models.MuscleArms, stored.Exercises[1].MuscleGroup)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSessions))

	// 10 reps against a 12 target holds the bench; triceps advance by the
	// catalog's 1 kg step
	require.Len(t, res.Summary.NextLoads, 2)
	assert.False(t, res.Summary.NextLoads[0].Advance)
	assert.Equal(t, 60.0, res.Summary.NextLoads[0].WeightKg)
	assert.True(t, res.Summary.NextLoads[1].Advance)
	assert.Equal(t, 21.0, res.Summary.NextLoads[1].WeightKg)
	assert.Positive(t, res.Summary.Calories1RM)

	// Same name and date again.
	rec = do(s, http.MethodPost, "/api/v1/sessions", sessionBody, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Now retrievable by ID.
	rec = do(s, http.MethodGet, "/api/v1/sessions/"+res.ID.String(), "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSessionBadInput(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store, nil)
	for _, body := range []string{
		`{`,
		`{"name":"","exercises":[{"name":"Curl","sets":1,"reps":1,"weight_kg":1}]}`,
		`{"name":"Push","exercises":[]}`,
		`{"name":"Push","exercises":[{"name":"Curl","sets":-1,"reps":1,"weight_kg":1}]}`,
		`{"name":"Legs","exercises":[{"name":"Squat","sets":0,"reps":0,"weight_kg":0}]}`,
		`{"name":"Legs","exercises":[{"name":"Squat","sets":3,"reps":0,"weight_kg":60}]}`,
		`{"name":"Legs","exercises":[{"name":"Squat","sets":0,"reps":8,"weight_kg":60}]}`,
		`{"name":"Legs","exercises":[{"name":"Squat","sets":3,"reps":8,"weight_kg":-5}]}`,
	} {
		rec := do(s, http.MethodPost, "/api/v1/sessions", body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, store.sessions)
}

func TestGetSession(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)

	rec := do(s, http.MethodGet, "/api/v1/sessions/not-a-uuid", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuerySessionsBadRange(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)

	rec := do(s, http.MethodGet, "/api/v1/sessions?start=yesterday", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/sessions?start=2024-06-10&end=2024-06-01", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatistics(t *testing.T) {
	store := &fakeStore{sessions: []models.SessionRecord{
		{ID: uuid.New(), Name: "Push", Date: time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC), DurationMin: 50, TotalVolume: 1000,
			Exercises: []models.ExerciseEntry{{Name: "Développé couché", Sets: 3, Reps: 10, WeightKg: 50}}},
		{ID: uuid.New(), Name: "Push", Date: time.Date(2024, 6, 17, 18, 0, 0, 0, time.UTC), DurationMin: 40, TotalVolume: 1100,
			Exercises: []models.ExerciseEntry{{Name: "Développé couché", Sets: 3, Reps: 10, WeightKg: 55}}},
	}}
	s := newTestServer(t, store, nil)

	rec := do(s, http.MethodGet, "/api/v1/statistics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		TotalSessions int     `json:"total_sessions"`
		TotalMinutes  int     `json:"total_minutes"`
		MaxWeight     float64 `json:"max_weight"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, 2, report.TotalSessions)
	assert.Equal(t, 90, report.TotalMinutes)
	assert.Equal(t, 55.0, report.MaxWeight)
}

func TestStatisticsTopFavorites(t *testing.T) {
	day := time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	store := &fakeStore{sessions: []models.SessionRecord{
		{ID: uuid.New(), Name: "Push", Date: day, Exercises: []models.ExerciseEntry{
			{Name: "Développé couché", Sets: 3, Reps: 10, WeightKg: 50},
			{Name: "Curl biceps", Sets: 3, Reps: 10, WeightKg: 12},
		}},
		{ID: uuid.New(), Name: "Push", Date: day.AddDate(0, 0, 7), Exercises: []models.ExerciseEntry{
			{Name: "Développé couché", Sets: 3, Reps: 10, WeightKg: 55},
		}},
	}}
	s := newTestServer(t, store, nil)

	var report stats.Report
	rec := do(s, http.MethodGet, "/api/v1/statistics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Len(t, report.FavoriteExercises, 2)

	report = stats.Report{}
	rec = do(s, http.MethodGet, "/api/v1/statistics?top=1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Len(t, report.FavoriteExercises, 1)
	assert.Equal(t, "Développé couché", report.FavoriteExercises[0].Exercise)

	rec = do(s, http.MethodGet, "/api/v1/statistics?top=zero", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVolumeBadAgg(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	rec := do(s, http.MethodGet, "/api/v1/statistics/volume?agg=hourly", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/statistics/volume?agg=monthly", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)

	rec := do(s, http.MethodGet, "/api/v1/profile", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, http.MethodPut, "/api/v1/profile", `{"weight_kg":-1}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPut, "/api/v1/profile",
		`{"birth_date":"1994-06-20T00:00:00Z","weight_kg":80,"height_cm":180,"sex":"homme","activity":"Modéré","goal":"strength"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/profile", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, models.GoalStrength, p.Goal, "goal aliases are normalised")
	assert.Equal(t, 30, p.Age(time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)))
}

func TestDailyCalories(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store, nil)

	rec := do(s, http.MethodGet, "/api/v1/calories/daily", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	store.profile = &models.Profile{
		BirthDate: time.Date(1994, 6, 20, 0, 0, 0, 0, time.UTC),
		WeightKg:  80,
		HeightCm:  180,
		Sex:       models.SexMale,
		Goal:      models.GoalMaintain,
	}
	store.sessions = []models.SessionRecord{
		{ID: uuid.New(), Name: "Legs", Date: time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC), TotalCalories: 250},
		{ID: uuid.New(), Name: "Legs", Date: time.Date(2024, 6, 19, 8, 0, 0, 0, time.UTC), TotalCalories: 300},
		// no stored calories: MET 5 × 80 kg × 1 h × 1.05
		{ID: uuid.New(), Name: "Cardio", Date: time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC), DurationMin: 60},
	}

	rec = do(s, http.MethodGet, "/api/v1/calories/daily", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var res caloriesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	// 10*80 + 6.25*180 - 5*30 + 5
	assert.InDelta(t, 1780, res.BMR, 1e-9)
	assert.Equal(t, res.DailyCalories, res.GoalCalories)
	assert.Equal(t, 250+420, res.TrainingBurned)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)

	rec := do(s, http.MethodGet, "/api/v1/machines", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Machine
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all, 17)

	rec = do(s, http.MethodGet, "/api/v1/machines/"+url.PathEscape("Squat"), "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/machines/squat", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code, "lookups are case-sensitive")

	rec = do(s, http.MethodGet, "/api/v1/machines?muscle=Nowhere", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(s, http.MethodGet, "/api/v1/presets/Pull", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/presets/Nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/machines/recommended", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

const alphaCSV = `"Push";"2024-06-10 6:00 h";"0:45 hr"
"1. Bench Press · Barbell · 6 reps"
#;KG;REPS;RIR
1;100;6;1
2;100;5;0
`

func TestAlphaIngestLogsImport(t *testing.T) {
	m := metrics.NewTestManager()
	store := &fakeStore{}
	s := newTestServer(t, store, m)

	rec := do(s, http.MethodPost, "/api/v1/ingest/alpha", alphaCSV, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, store.sessions, 1)
	require.Len(t, store.importLogs, 1)
	assert.Equal(t, storage.ImportSuccess, store.importLogs[0].Status)
	assert.Equal(t, 1, store.importLogs[0].SessionsInserted)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterImportedSessions))

	rec = do(s, http.MethodGet, "/api/v1/import-logs", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAlphaIngestBadCSV(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store, nil)

	rec := do(s, http.MethodPost, "/api/v1/ingest/alpha", "1;100;6;1\n", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, store.importLogs, 1)
	assert.Equal(t, storage.ImportError, store.importLogs[0].Status)
	assert.NotNil(t, store.importLogs[0].ErrorMessage)
}

func TestMetricsEndpoint(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	s := newTestServer(t, &fakeStore{}, m)
	s.MountMetrics(reg)

	do(s, http.MethodGet, "/api/v1/machines", "", false)
	rec := do(s, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `basicfit_test_server_request{method="GET",status="200"}`)
}

func TestMountAppliesIdentity(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, nil)
	s.Mount("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"user_id": RequestUserID(r)})
	}))

	rec := do(s, http.MethodPost, "/mcp", `{}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1}`, rec.Body.String())
}
