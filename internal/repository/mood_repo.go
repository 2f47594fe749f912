package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wellness-insights/internal/domain"
)

type PgMoodRepository struct {
	pool *pgxpool.Pool
}

func NewPgMoodRepository(pool *pgxpool.Pool) *PgMoodRepository {
	return &PgMoodRepository{pool: pool}
}

func (r *PgMoodRepository) Create(ctx context.Context, sample domain.MoodSample) error {
	const query = `
		INSERT INTO mood_entries (id, user_id, mood_value, mood_label, notes, sleep_hours, stress_level, energy_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		sample.ID,
		sample.UserID,
		sample.Value,
		string(sample.Label),
		sample.Notes,
		sample.SleepHours,
		sample.StressLevel,
		sample.EnergyLevel,
		sample.CreatedAt,
	)
	return err
}

func (r *PgMoodRepository) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.MoodSample, error) {
	const query = `
		SELECT id, user_id, mood_value, mood_label, notes, sleep_hours, stress_level, energy_level, created_at
		FROM mood_entries
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMoods(rows)
}

func scanMoods(rows pgxRows) ([]domain.MoodSample, error) {
	moods := []domain.MoodSample{}
	for rows.Next() {
		var m domain.MoodSample
		var label string
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Value,
			&label,
			&m.Notes,
			&m.SleepHours,
			&m.StressLevel,
			&m.EnergyLevel,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Label = domain.MoodLabel(label)
		moods = append(moods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return moods, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...any) error
	Err() error
	Close()
}
