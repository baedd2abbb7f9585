package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// insertSets batch-inserts the set logs of a session's exercises.
func insertSets(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, entries []models.ExerciseEntry) error {
	const cols = 8
	var (
		args         []any
		valueStrings []string
	)
	for pos, e := range entries {
		for _, s := range e.SetLog {
			base := len(valueStrings) * cols
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
			))
			args = append(args, sessionID, pos, s.IsWarmup, s.Number,
				s.WeightKg, s.IsBodyweightPlus, s.Reps, s.RIR)
		}
	}
	if len(valueStrings) == 0 {
		return nil
	}

	query := `INSERT INTO session_sets (session_id, position, is_warmup, set_number,
		weight_kg, is_bodyweight_plus, reps, rir) VALUES ` +
		strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting session sets: %w", err)
	}
	return nil
}

// attachSets loads the set logs for ids and attaches them to the matching
// exercise by position. Warmups come first within an exercise.
func (db *DB) attachSets(ctx context.Context, ids []uuid.UUID, sessions []models.SessionRecord, index map[uuid.UUID]int) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT session_id, position, is_warmup, set_number, weight_kg, is_bodyweight_plus, reps, rir
		 FROM session_sets
		 WHERE session_id = ANY($1)
		 ORDER BY session_id, position ASC, is_warmup DESC, set_number ASC`,
		ids)
	if err != nil {
		return fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sessionID uuid.UUID
			pos       int
			s         models.SetRecord
		)
		if err := rows.Scan(&sessionID, &pos, &s.IsWarmup, &s.Number,
			&s.WeightKg, &s.IsBodyweightPlus, &s.Reps, &s.RIR); err != nil {
			return fmt.Errorf("scanning session set: %w", err)
		}
		rec := &sessions[index[sessionID]]
		if pos < 0 || pos >= len(rec.Exercises) {
			continue
		}
		rec.Exercises[pos].SetLog = append(rec.Exercises[pos].SetLog, s)
	}
	return rows.Err()
}
