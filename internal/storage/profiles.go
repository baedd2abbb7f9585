package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetProfile returns the user's stored profile, or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	var (
		p     models.Profile
		birth *time.Time
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT birth_date, weight_kg, height_cm, sex, activity, goal
		 FROM profiles WHERE user_id = $1`,
		userID).Scan(&birth, &p.WeightKg, &p.HeightCm, &p.Sex, &p.Activity, &p.Goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	if birth != nil {
		p.BirthDate = *birth
	}
	return &p, nil
}

// UpsertProfile creates or replaces the user's profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.Profile, userID int) error {
	var birth *time.Time
	if !p.BirthDate.IsZero() {
		birth = &p.BirthDate
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (user_id, birth_date, weight_kg, height_cm, sex, activity, goal)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id) DO UPDATE SET
		 birth_date = EXCLUDED.birth_date, weight_kg = EXCLUDED.weight_kg,
		 height_cm = EXCLUDED.height_cm, sex = EXCLUDED.sex,
		 activity = EXCLUDED.activity, goal = EXCLUDED.goal, updated_at = NOW()`,
		userID, birth, p.WeightKg, p.HeightCm, string(p.Sex), string(p.Activity), string(p.Goal))
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
