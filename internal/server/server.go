package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Worcesters/basicfit/internal/catalog"
	"github.com/Worcesters/basicfit/internal/ingest/alpha"
	"github.com/Worcesters/basicfit/internal/metrics"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/Worcesters/basicfit/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the handlers need. *storage.DB satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile, userID int) error
	InsertSession(ctx context.Context, rec models.SessionRecord, source string, userID int) (bool, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRecord, error)
	AllSessions(ctx context.Context, userID int) ([]models.SessionRecord, error)
	GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.SessionRecord, error)
	ExerciseHistory(ctx context.Context, exercise string, userID int) ([]models.PerformanceRecord, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumePeriod, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	catalog  *catalog.Catalog
	engine   *recommend.Engine
	alpha    *alpha.Provider
	metrics  *metrics.Manager
	log      *slog.Logger
	apiKey   string
	router   chi.Router
	identity func(http.Handler) http.Handler
	now      func() time.Time
}

// New creates a new Server with all routes configured. m may be nil, which
// disables request metrics.
func New(db Store, cat *catalog.Catalog, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	var (
		recObs   recommend.Observer
		alphaObs alpha.Observer
	)
	if m != nil {
		recObs, alphaObs = m, m
	}

	s := &Server{
		db:       db,
		catalog:  cat,
		engine:   recommend.NewEngine(cat, recObs),
		alpha:    alpha.NewProvider(db, alphaObs, log),
		metrics:  m,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		identity: DevIdentity,
		now:      time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity from the local dev user to the
// tailnet user behind each connection.
func (s *Server) SetTailscale(wc WhoIsClient) {
	s.identity = TailscaleIdentity(wc, s.db, s.log)
}

// MountMetrics exposes g at /metrics.
func (s *Server) MountMetrics(g prometheus.Gatherer) {
	s.router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// Mount attaches another handler, such as the MCP endpoint, at pattern
// behind the same identity middleware as the API.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.With(s.withIdentity).Handle(pattern, h)
}

func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.identity(next).ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(PanicRecovery(s.metrics, s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.withIdentity)

		r.Get("/me", s.handleMe)

		r.Get("/machines", s.handleMachines)
		r.Get("/machines/recommended", s.handleRecommendedMachines)
		r.Get("/machines/{name}", s.handleMachine)
		r.Get("/modes", s.handleModes)
		r.Get("/presets", s.handlePresets)
		r.Get("/presets/{name}", s.handlePreset)

		r.Get("/profile", s.handleGetProfile)
		r.Get("/recommendations", s.handleRecommendation)
		r.Post("/recommendations/adapt", s.handleAdapt)
		r.Get("/sessions", s.handleQuerySessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/history", s.handleExerciseHistory)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/statistics/volume", s.handleVolume)
		r.Get("/calories/daily", s.handleDailyCalories)
		r.Get("/overview", s.handleOverview)
		r.Get("/import-logs", s.handleImportLogs)

		// Writes (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Put("/profile", s.handlePutProfile)
			r.Post("/sessions", s.handleCreateSession)
			r.Post("/ingest/alpha", s.handleAlphaIngest)
		})
	})
}
