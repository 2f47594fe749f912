package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wellness-insights/internal/domain"
)

type PgJournalRepository struct {
	pool *pgxpool.Pool
}

func NewPgJournalRepository(pool *pgxpool.Pool) *PgJournalRepository {
	return &PgJournalRepository{pool: pool}
}

func (r *PgJournalRepository) Create(ctx context.Context, sample domain.JournalSample) error {
	analysis, err := encodeAnalysis(sample.Analysis)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO journal_entries (id, user_id, title, content, mood_id, ai_analysis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		sample.ID,
		sample.UserID,
		sample.Title,
		sample.Content,
		sample.MoodID,
		analysis,
		sample.CreatedAt,
	)
	return err
}

func (r *PgJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalSample, error) {
	const query = `
		SELECT id, user_id, title, content, mood_id, ai_analysis, created_at
		FROM journal_entries
		WHERE id = $1
	`
	var j domain.JournalSample
	var raw []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.UserID,
		&j.Title,
		&j.Content,
		&j.MoodID,
		&raw,
		&j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSampleNotFound
		}
		return nil, err
	}
	if j.Analysis, err = decodeAnalysis(raw); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PgJournalRepository) UpdateAnalysis(ctx context.Context, id string, analysis domain.AIAnalysis) error {
	raw, err := encodeAnalysis(&analysis)
	if err != nil {
		return err
	}
	const query = `UPDATE journal_entries SET ai_analysis = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, raw, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSampleNotFound
	}
	return nil
}

func (r *PgJournalRepository) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.JournalSample, error) {
	const query = `
		SELECT id, user_id, title, content, mood_id, ai_analysis, created_at
		FROM journal_entries
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournals(rows)
}

func scanJournals(rows pgxRows) ([]domain.JournalSample, error) {
	journals := []domain.JournalSample{}
	for rows.Next() {
		var j domain.JournalSample
		var raw []byte
		if err := rows.Scan(
			&j.ID,
			&j.UserID,
			&j.Title,
			&j.Content,
			&j.MoodID,
			&raw,
			&j.CreatedAt,
		); err != nil {
			return nil, err
		}
		analysis, err := decodeAnalysis(raw)
		if err != nil {
			return nil, err
		}
		j.Analysis = analysis
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return journals, nil
}

// encodeAnalysis serializa el analisis; nil se guarda como NULL.
func encodeAnalysis(a *domain.AIAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return raw, nil
}

func decodeAnalysis(raw []byte) (*domain.AIAnalysis, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var a domain.AIAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}
