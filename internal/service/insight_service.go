package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wellness-insights/internal/analytics"
	"wellness-insights/internal/domain"
	"wellness-insights/internal/repository"
)

var ErrInvalidUserID = errors.New("invalid user id")

// SampleFetcher entrega la foto ordenada de muestras de un usuario.
type SampleFetcher interface {
	FetchSamples(ctx context.Context, userID string, since *time.Time) (repository.Samples, error)
}

// InsightService arma la foto del usuario, corre el motor y cachea el resultado.
type InsightService struct {
	samples SampleFetcher
	engine  *analytics.Engine
	cache   InsightCache
	logger  *zap.Logger
	now     func() time.Time

	// generations cuenta invalidaciones por usuario; un reporte calculado
	// antes de una invalidacion no se guarda en cache.
	genMu       sync.Mutex
	generations map[string]uint64
}

func NewInsightService(samples SampleFetcher, engine *analytics.Engine, cache InsightCache, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{
		samples: samples,
		engine:  engine,
		cache:   cache,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },

		generations: make(map[string]uint64),
	}
}

// GetInsights devuelve los insights del usuario ordenados por confianza.
func (s *InsightService) GetInsights(ctx context.Context, userID string) ([]domain.Insight, error) {
	report, err := s.Report(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Insights, nil
}

// GetSummary devuelve las metricas agregadas del usuario.
func (s *InsightService) GetSummary(ctx context.Context, userID string) (domain.UserAnalytics, error) {
	report, err := s.Report(ctx, userID)
	if err != nil {
		return domain.UserAnalytics{}, err
	}
	return report.Summary, nil
}

// Report calcula (o recupera de cache) insights y resumen en una sola pasada.
// Los errores de cache se loguean y no cortan el calculo.
func (s *InsightService) Report(ctx context.Context, userID string) (InsightReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return InsightReport{}, ErrInvalidUserID
	}

	gen := s.generation(userID)
	snapshot, err := s.samples.FetchSamples(ctx, userID, nil)
	if err != nil {
		return InsightReport{}, fmt.Errorf("fetch samples for user %s: %w", userID, err)
	}
	latest := snapshot.Latest()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID, latest)
		if err != nil {
			s.logger.Warn("insight cache get failed", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			s.logger.Debug("insight cache hit", zap.String("user_id", userID))
			return cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return InsightReport{}, err
	}

	in := analytics.Input{
		UserID:  userID,
		Mood:    snapshot.Mood,
		Journal: snapshot.Journal,
		Now:     s.now(),
	}
	report := InsightReport{
		UserID:       userID,
		LatestSample: latest,
		Insights:     s.engine.GenerateInsights(in),
		Summary:      s.engine.Summarize(in),
	}

	s.logger.Info("insights computed",
		zap.String("user_id", userID),
		zap.Int("mood_samples", len(snapshot.Mood)),
		zap.Int("journal_samples", len(snapshot.Journal)),
		zap.Int("insights", len(report.Insights)),
	)

	if s.cache != nil {
		if s.generation(userID) != gen {
			s.logger.Debug("insight cache set skipped, invalidated during compute", zap.String("user_id", userID))
			return report, nil
		}
		if err := s.cache.Set(ctx, report); err != nil {
			s.logger.Warn("insight cache set failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return report, nil
}

// Invalidate descarta los resultados cacheados del usuario.
func (s *InsightService) Invalidate(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	s.genMu.Lock()
	s.generations[userID]++
	s.genMu.Unlock()
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, userID)
}

func (s *InsightService) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[userID]
}
