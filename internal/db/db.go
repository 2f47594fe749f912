package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wellness-insights/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Las lecturas del motor son por usuario y cortas; un pool chico alcanza.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// Schema crea las tablas de muestras si no existen.
const Schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	mood_value   INTEGER NOT NULL CHECK (mood_value BETWEEN 1 AND 10),
	mood_label   TEXT NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	sleep_hours  DOUBLE PRECISION,
	stress_level INTEGER,
	energy_level INTEGER,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mood_entries_user_created ON mood_entries (user_id, created_at, id);

CREATE TABLE IF NOT EXISTS journal_entries (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	mood_id     TEXT NOT NULL DEFAULT '',
	ai_analysis JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries (user_id, created_at, id);
`

// EnsureSchema aplica Schema sobre el pool.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
