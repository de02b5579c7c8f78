package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// HealthStore handles the append-only health_records table.
type HealthStore struct {
	pool *pgxpool.Pool
}

func NewHealthStore(pool *pgxpool.Pool) *HealthStore {
	return &HealthStore{pool: pool}
}

// Append inserts one record. There is no upsert: repeated submissions for
// the same (username, date) coexist as separate rows.
func (s *HealthStore) Append(ctx context.Context, rec *models.HealthRecord) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO health_records (username, date, steps, water_liters, sleep_hours, mood, calories)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		rec.Username, rec.Date, rec.Steps, rec.WaterLiters, rec.SleepHours, rec.Mood, rec.Calories,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append health record: %w", err)
	}
	return nil
}

// ListByUser returns all records for the username ordered by date
// descending; rows sharing a date keep insertion order (id ascending).
// An unknown user yields an empty slice, never an error.
func (s *HealthStore) ListByUser(ctx context.Context, username string) ([]models.HealthRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, date, steps, water_liters, sleep_hours, mood, calories, created_at
		 FROM health_records
		 WHERE username = $1
		 ORDER BY date DESC, id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer rows.Close()

	var recs []models.HealthRecord
	for rows.Next() {
		var r models.HealthRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.Date, &r.Steps, &r.WaterLiters,
			&r.SleepHours, &r.Mood, &r.Calories, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan health record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
