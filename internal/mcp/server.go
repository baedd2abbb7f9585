package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/Worcesters/basicfit/internal/catalog"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
// observer may be nil.
func New(ds DataSource, cat *catalog.Catalog, observer recommend.Observer, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("basicfit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("basicfit training coach. Recommend working weights, adapt loads between sets, and query training history and statistics. All data is scoped to the authenticated user. Machine names are exact and case-sensitive; use list_machines to find them."),
	)

	h := newHandlers(ds, cat, observer, log)

	s.AddTools(
		server.ServerTool{Tool: toolRecommendWeight, Handler: h.recommendWeight},
		server.ServerTool{Tool: toolAdaptWeight, Handler: h.adaptWeight},
		server.ServerTool{Tool: toolEstimateOneRepMax, Handler: h.estimateOneRepMax},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetStatistics, Handler: h.getStatistics},
		server.ServerTool{Tool: toolListMachines, Handler: h.listMachines},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetTrainingVolume, Handler: h.getTrainingVolume},
	)

	s.AddResources(
		server.ServerResource{Resource: resProfile, Handler: h.profile},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resMachineCatalog, Handler: h.machineCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	catalog *catalog.Catalog
	engine  *recommend.Engine
	log     *slog.Logger
	now     func() time.Time
}

func newHandlers(ds DataSource, cat *catalog.Catalog, observer recommend.Observer, log *slog.Logger) *handlers {
	return &handlers{
		ds:      ds,
		catalog: cat,
		engine:  recommend.NewEngine(cat, observer),
		log:     log,
		now:     time.Now,
	}
}

// --- Resource definitions ---

var resProfile = mcp.NewResource(
	"basicfit://profile",
	"Profile",
	mcp.WithResourceDescription("The user's profile with derived BMI and daily calorie needs"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"basicfit://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Training sessions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resMachineCatalog = mcp.NewResource(
	"basicfit://machine_catalog",
	"Machine Catalog",
	mcp.WithResourceDescription("Every machine with its muscle group, load bounds and increment, plus training modes and presets"),
	mcp.WithMIMEType("application/json"),
)
