package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumePeriod holds aggregated training load for one week or month.
type VolumePeriod struct {
	Period        string  `json:"period"`
	Sessions      int     `json:"sessions"`
	TotalMinutes  int     `json:"total_minutes"`
	TotalCalories int     `json:"total_calories"`
	WorkingSets   int     `json:"working_sets"`
	TonnageKg     float64 `json:"tonnage_kg"`
}

// GetVolumeSummary returns training load per period in [start, end), newest
// period first. bucket is "1 week" or "1 month".
func (db *DB) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]VolumePeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, s.session_date)::date AS period,
		        COUNT(*)::int,
		        COALESCE(SUM(s.duration_min), 0)::int,
		        COALESCE(SUM(s.total_calories), 0)::int,
		        COALESCE(SUM(x.sets), 0)::int,
		        COALESCE(SUM(x.tonnage), 0)
		 FROM sessions s
		 LEFT JOIN (
			SELECT session_id, SUM(sets) AS sets, SUM(weight_kg * reps * sets) AS tonnage
			FROM session_exercises
			GROUP BY session_id
		 ) x ON x.session_id = s.id
		 WHERE s.session_date >= $2 AND s.session_date < $3 AND s.user_id = $4
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying volume summary: %w", err)
	}
	defer rows.Close()

	var result []VolumePeriod
	for rows.Next() {
		var periodTime time.Time
		var v VolumePeriod
		if err := rows.Scan(&periodTime, &v.Sessions, &v.TotalMinutes, &v.TotalCalories,
			&v.WorkingSets, &v.TonnageKg); err != nil {
			return nil, fmt.Errorf("scanning volume summary: %w", err)
		}
		v.Period = periodTime.Format("2006-01-02")
		result = append(result, v)
	}
	return result, rows.Err()
}

// truncInterval converts bucket strings like "1 month" to the interval name
// that date_trunc expects (e.g. "month", "week").
func truncInterval(bucket string) string {
	switch bucket {
	case "1 week", "week":
		return "week"
	default:
		return "month"
	}
}
