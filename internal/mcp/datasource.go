package mcp

import (
	"context"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRecord, error)
	AllSessions(ctx context.Context, userID int) ([]models.SessionRecord, error)
	ExerciseHistory(ctx context.Context, exercise string, userID int) ([]models.PerformanceRecord, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumePeriod, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
