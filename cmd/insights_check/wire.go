package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wellness-insights/internal/analytics"
	"wellness-insights/internal/config"
	"wellness-insights/internal/db"
	"wellness-insights/internal/llm"
	"wellness-insights/internal/repository"
	"wellness-insights/internal/service"
)

type app struct {
	insights *service.InsightService
	samples  *service.SampleService
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	moods, journals, err := openStore(ctx, cfg, logger, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	settings, err := cfg.AnalyticsSettings()
	if err != nil {
		a.Close()
		return nil, err
	}
	engine := analytics.NewEngine(settings, logger)

	cache := openCache(ctx, cfg, logger, a)
	a.insights = service.NewInsightService(repository.NewSampleStore(moods, journals), engine, cache, logger)

	var analyzer service.JournalAnalyzer
	if cfg.LLMAPIKey != "" {
		llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger,
			llm.WithTemperature(cfg.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
		)
		analyzer = service.NewJournalAnalysisService(llmClient, journals, a.insights, logger)
	} else {
		logger.Info("LLM_API_KEY not set, journal entries stay unanalyzed")
	}
	a.samples = service.NewSampleService(moods, journals, analyzer, a.insights, logger)
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, a *app) (repository.MoodRepository, repository.JournalRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return repository.NewGormMoodRepository(gdb), repository.NewGormJournalRepository(gdb), nil
	default:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db pool: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := db.Ping(ctx, pool); err != nil {
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return nil, nil, fmt.Errorf("db schema: %w", err)
		}
		logger.Info("using postgres store")
		return repository.NewPgMoodRepository(pool), repository.NewPgJournalRepository(pool), nil
	}
}

// openCache usa Redis si esta configurado y responde; si no, cache en memoria.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger, a *app) service.InsightCache {
	if cfg.RedisAddr == "" {
		return service.NewMemoryInsightCache(cfg.InsightCacheTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, using memory cache", zap.Error(err))
		_ = client.Close()
		return service.NewMemoryInsightCache(cfg.InsightCacheTTL)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	return service.NewRedisInsightCache(client, cfg.InsightCacheTTL)
}
