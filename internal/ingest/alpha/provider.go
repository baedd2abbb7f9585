package alpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Worcesters/basicfit/internal/ingest"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/progression"
	"github.com/Worcesters/basicfit/internal/stats"
	"github.com/Worcesters/basicfit/internal/storage"
	"github.com/Worcesters/basicfit/internal/summary"
)

// Store is the persistence the provider needs. *storage.DB satisfies it.
type Store interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	AllSessions(ctx context.Context, userID int) ([]models.SessionRecord, error)
	InsertSession(ctx context.Context, rec models.SessionRecord, source string, userID int) (bool, error)
}

// Observer is told about every imported session. May be nil.
type Observer interface {
	ObserveSession(records []progression.RecordEvent)
	ObserveImport(sessions int)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	store    Store
	observer Observer
	log      *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store Store, observer Observer, log *slog.Logger) *Provider {
	return &Provider{store: store, observer: observer, log: log}
}

// Ingest parses a CSV export, summarises each session against the stored
// history and persists it. Sessions already stored under the same name and
// date are skipped, so re-importing an export is safe.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	profile, err := p.store.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		profile = &models.Profile{}
	case err != nil:
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	history, err := p.store.AllSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	slices.SortStableFunc(sessions, func(a, b Session) int { return a.Date.Compare(b.Date) })

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		entries := s.Entries()
		for i := range entries {
			entries[i].MuscleGroup = stats.MuscleGroupFor(entries[i].Name)
			result.SetsReceived += len(entries[i].SetLog)
		}
		if len(entries) == 0 {
			result.SessionsSkipped++
			continue
		}

		sum := summary.Build(summary.Input{
			Name:      s.Name,
			Date:      s.Date,
			Exercises: entries,
			Profile:   *profile,
			History:   history,
		})
		rec := sum.Record()
		if d := s.DurationMin(); d > 0 {
			rec.DurationMin = d
		}

		inserted, err := p.store.InsertSession(ctx, rec, storage.SourceAlpha, userID)
		if err != nil {
			return nil, fmt.Errorf("storing session %s %s: %w", s.Name, s.Date.Format("2006-01-02"), err)
		}
		if !inserted {
			result.SessionsSkipped++
			continue
		}

		history = append(history, rec)
		result.SessionsInserted++
		result.RecordsSet += len(sum.Records)
		if p.observer != nil {
			p.observer.ObserveSession(sum.Records)
		}
	}

	if p.observer != nil {
		p.observer.ObserveImport(result.SessionsInserted)
	}
	p.log.Info("alpha import complete",
		"user_id", userID,
		"received", result.SessionsReceived,
		"inserted", result.SessionsInserted,
		"skipped", result.SessionsSkipped,
		"records", result.RecordsSet,
	)
	return result, nil
}
