package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Session sources.
const (
	SourceApp   = "app"
	SourceAlpha = "alpha"
)

// InsertSession stores a completed session with its exercises and set log in
// one transaction. Returns false if a session with the same name and date
// already exists for the user.
func (db *DB) InsertSession(ctx context.Context, rec models.SessionRecord, source string, userID int) (bool, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning session tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, name, session_date, duration_min,
		 total_volume, total_calories, performance_label, source)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id, name, session_date) DO NOTHING`,
		rec.ID, userID, rec.Name, rec.Date, rec.DurationMin,
		rec.TotalVolume, rec.TotalCalories, rec.PerformanceLabel, source)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertExercises(ctx, tx, rec.ID, rec.Exercises); err != nil {
		return false, err
	}
	if err := insertSets(ctx, tx, rec.ID, rec.Exercises); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing session: %w", err)
	}
	return true, nil
}

func insertExercises(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, entries []models.ExerciseEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `INSERT INTO session_exercises (session_id, position, name, muscle_group, sets, reps, weight_kg) VALUES `
	args := make([]any, 0, len(entries)*7)
	valueStrings := make([]string, 0, len(entries))

	for i, e := range entries {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, sessionID, i, e.Name, e.MuscleGroup, e.Sets, e.Reps, e.WeightKg)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting session exercises: %w", err)
	}
	return nil
}

// QuerySessions returns the sessions dated in [start, end), oldest first,
// with exercises and set logs attached.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRecord, error) {
	return db.loadSessions(ctx,
		`WHERE user_id = $1 AND session_date >= $2 AND session_date < $3`,
		userID, start, end)
}

// AllSessions returns the user's complete history, oldest first.
func (db *DB) AllSessions(ctx context.Context, userID int) ([]models.SessionRecord, error) {
	return db.loadSessions(ctx, `WHERE user_id = $1`, userID)
}

// GetSession retrieves a single session by ID.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.SessionRecord, error) {
	sessions, err := db.loadSessions(ctx, `WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return &sessions[0], nil
}

func (db *DB) loadSessions(ctx context.Context, where string, args ...any) ([]models.SessionRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, session_date, duration_min, total_volume, total_calories, performance_label
		 FROM sessions `+where+`
		 ORDER BY session_date ASC, created_at ASC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRecord
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s models.SessionRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.DurationMin,
			&s.TotalVolume, &s.TotalCalories, &s.PerformanceLabel); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		index[s.ID] = len(result)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(result))
	for i, s := range result {
		ids[i] = s.ID
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT session_id, name, muscle_group, sets, reps, weight_kg
		 FROM session_exercises
		 WHERE session_id = ANY($1)
		 ORDER BY session_id, position ASC`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var sessionID uuid.UUID
		var e models.ExerciseEntry
		if err := exRows.Scan(&sessionID, &e.Name, &e.MuscleGroup, &e.Sets, &e.Reps, &e.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		s := &result[index[sessionID]]
		s.Exercises = append(s.Exercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	if err := db.attachSets(ctx, ids, result, index); err != nil {
		return nil, err
	}
	return result, nil
}

// ExerciseHistory returns every stored performance of one exercise, matched
// by exact name, oldest first.
func (db *DB) ExerciseHistory(ctx context.Context, exercise string, userID int) ([]models.PerformanceRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.name, e.weight_kg, e.reps, e.sets, s.session_date
		 FROM session_exercises e
		 JOIN sessions s ON s.id = e.session_id
		 WHERE s.user_id = $1 AND e.name = $2
		 ORDER BY s.session_date ASC, e.position ASC`,
		userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var result []models.PerformanceRecord
	for rows.Next() {
		var p models.PerformanceRecord
		if err := rows.Scan(&p.Exercise, &p.WeightKg, &p.Reps, &p.Sets, &p.Time); err != nil {
			return nil, fmt.Errorf("scanning exercise history: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// LatestSessionDate returns the date of the user's most recent session, or
// ErrNotFound when nothing has been recorded.
func (db *DB) LatestSessionDate(ctx context.Context, userID int) (time.Time, error) {
	var t time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT session_date FROM sessions WHERE user_id = $1 ORDER BY session_date DESC LIMIT 1`,
		userID).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying latest session: %w", err)
	}
	return t, nil
}
