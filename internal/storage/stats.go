package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate counts about everything stored for a user.
type DataStats struct {
	TotalSessions  int64             `json:"total_sessions"`
	TotalExercises int64             `json:"total_exercises"`
	TotalSets      int64             `json:"total_sets"`
	EarliestData   *time.Time        `json:"earliest_data"`
	LatestData     *time.Time        `json:"latest_data"`
	SessionsByName []SessionNameStat `json:"sessions_by_name"`
	BySource       map[string]int64  `json:"by_source"`
}

// SessionNameStat holds summary stats for one workout name.
type SessionNameStat struct {
	Name         string  `json:"name"`
	Count        int64   `json:"count"`
	TotalMinutes int64   `json:"total_minutes"`
	TotalVolume  float64 `json:"total_volume"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{BySource: map[string]int64{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(session_date), MAX(session_date) FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(e.sets), 0)
		 FROM session_exercises e JOIN sessions s ON s.id = e.session_id
		 WHERE s.user_id = $1`, userID,
	).Scan(&stats.TotalExercises, &stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT name, COUNT(*), COALESCE(SUM(duration_min), 0), COALESCE(SUM(total_volume), 0)
		 FROM sessions
		 WHERE user_id = $1
		 GROUP BY name
		 ORDER BY COUNT(*) DESC, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SessionNameStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalMinutes, &s.TotalVolume); err != nil {
			return nil, fmt.Errorf("scanning session name stat: %w", err)
		}
		stats.SessionsByName = append(stats.SessionsByName, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := db.Pool.Query(ctx,
		`SELECT source, COUNT(*) FROM sessions WHERE user_id = $1 GROUP BY source`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by source: %w", err)
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var src string
		var n int64
		if err := srcRows.Scan(&src, &n); err != nil {
			return nil, fmt.Errorf("scanning session source: %w", err)
		}
		stats.BySource[src] = n
	}
	return stats, srcRows.Err()
}
