package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"wellness-insights/internal/analytics"
	"wellness-insights/internal/domain"
	"wellness-insights/internal/repository"
)

var serviceBase = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func risingMoods(n int) []domain.MoodSample {
	out := make([]domain.MoodSample, 0, n)
	for i := 0; i < n; i++ {
		v := 3
		if i >= n/2 {
			v = 8
		}
		out = append(out, domain.MoodSample{
			ID:        fmt.Sprintf("m%02d", i),
			UserID:    "user-1",
			Value:     v,
			Label:     domain.MoodOkay,
			CreatedAt: serviceBase.AddDate(0, 0, i),
		})
	}
	return out
}

func newTestInsightService(fetcher SampleFetcher, cache InsightCache) *InsightService {
	engine := analytics.NewEngine(analytics.DefaultSettings(), zap.NewNop())
	svc := NewInsightService(fetcher, engine, cache, zap.NewNop())
	svc.now = func() time.Time { return serviceBase.AddDate(0, 0, 14) }
	return svc
}

func TestInsightServiceComputesAndCaches(t *testing.T) {
	fetcher := &mockFetcher{samples: repository.Samples{Mood: risingMoods(14)}}
	cache := NewMemoryInsightCache(time.Hour)
	svc := newTestInsightService(fetcher, cache)
	ctx := context.Background()

	insights, err := svc.GetInsights(ctx, "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var improving bool
	for _, in := range insights {
		if in.Title == "Your mood is improving" {
			improving = true
		}
		if len(in.SupportingReferences) == 0 {
			t.Fatalf("insight %q without references", in.Title)
		}
	}
	if !improving {
		t.Fatalf("expected an improving-trend insight, got %+v", insights)
	}

	// Con el mismo latest, el resumen sale de cache aunque el reloj avance.
	first := svc.now()
	svc.now = func() time.Time { return first.Add(time.Hour) }
	summary, err := svc.GetSummary(ctx, "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.GeneratedAt.Equal(first) {
		t.Fatalf("expected cached summary generated at %v, got %v", first, summary.GeneratedAt)
	}
	if summary.TotalEntries != 14 || summary.MoodTrend != domain.TrendImproving {
		t.Fatalf("unexpected summary %+v", summary)
	}

	// Una muestra nueva cambia latest y fuerza recalculo.
	fetcher.samples.Mood = append(fetcher.samples.Mood, domain.MoodSample{
		ID: "m14", UserID: "user-1", Value: 9, Label: domain.MoodGreat, CreatedAt: serviceBase.AddDate(0, 0, 14),
	})
	summary, err = svc.GetSummary(ctx, "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalEntries != 15 || summary.GeneratedAt.Equal(first) {
		t.Fatalf("expected recomputed summary, got %+v", summary)
	}
}

func TestInsightServiceInvalidate(t *testing.T) {
	fetcher := &mockFetcher{samples: repository.Samples{Mood: risingMoods(14)}}
	cache := NewMemoryInsightCache(time.Hour)
	svc := newTestInsightService(fetcher, cache)
	ctx := context.Background()

	if _, err := svc.Report(ctx, "user-1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	latest := fetcher.samples.Latest()
	if _, ok, _ := cache.Get(ctx, "user-1", latest); !ok {
		t.Fatalf("expected report to be cached")
	}
	if err := svc.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "user-1", latest); ok {
		t.Fatalf("expected cache entry to be gone")
	}
}

func TestInsightServiceCacheFailuresAreIgnored(t *testing.T) {
	fetcher := &mockFetcher{samples: repository.Samples{Mood: risingMoods(14)}}
	svc := newTestInsightService(fetcher, failingCache{})

	insights, err := svc.GetInsights(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected cache failures to be ignored, got %v", err)
	}
	if len(insights) == 0 {
		t.Fatalf("expected insights despite cache failure")
	}
}

func TestInsightServiceErrors(t *testing.T) {
	svc := newTestInsightService(&mockFetcher{}, nil)
	if _, err := svc.GetInsights(context.Background(), "  "); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}

	boom := errors.New("db down")
	svc = newTestInsightService(&mockFetcher{err: boom}, nil)
	if _, err := svc.GetSummary(context.Background(), "user-1"); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to be wrapped, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc = newTestInsightService(&mockFetcher{}, nil)
	if _, err := svc.Report(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInsightServiceEmptyUser(t *testing.T) {
	svc := newTestInsightService(&mockFetcher{}, NewMemoryInsightCache(time.Minute))
	insights, err := svc.GetInsights(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(insights) != 0 {
		t.Fatalf("expected no insights without samples, got %+v", insights)
	}
}

// lateAnalysisFetcher devuelve la foto sin analizar y, durante ese mismo fetch,
// aplica el analisis e invalida como lo haria JournalAnalysisService.
type lateAnalysisFetcher struct {
	svc      *InsightService
	journals []domain.JournalSample
	landed   bool
}

func (f *lateAnalysisFetcher) FetchSamples(ctx context.Context, userID string, since *time.Time) (repository.Samples, error) {
	snapshot := append([]domain.JournalSample(nil), f.journals...)
	if !f.landed {
		f.landed = true
		for i := range f.journals {
			f.journals[i].Analysis = &domain.AIAnalysis{
				Sentiment:  -0.8,
				AnalyzedAt: serviceBase.AddDate(0, 0, 3),
			}
		}
		if err := f.svc.Invalidate(ctx, userID); err != nil {
			return repository.Samples{}, err
		}
	}
	return repository.Samples{Journal: snapshot}, nil
}

func TestInsightServiceLateAnalysisDuringComputeIsNotCachedStale(t *testing.T) {
	tests := []struct {
		name  string
		cache func() InsightCache
	}{
		{name: "memory", cache: func() InsightCache { return NewMemoryInsightCache(time.Hour) }},
		{name: "redis", cache: func() InsightCache { return newRedisInsightCache(newFakeRedisInsightClient(), time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &lateAnalysisFetcher{}
			for i := 0; i < 3; i++ {
				fetcher.journals = append(fetcher.journals, domain.JournalSample{
					ID:        fmt.Sprintf("j%d", i),
					UserID:    "user-1",
					Content:   "Another heavy day at work.",
					CreatedAt: serviceBase.AddDate(0, 0, i),
				})
			}
			svc := newTestInsightService(fetcher, tt.cache())
			fetcher.svc = svc
			ctx := context.Background()

			first, err := svc.GetInsights(ctx, "user-1")
			if err != nil {
				t.Fatalf("first report: %v", err)
			}
			for _, in := range first {
				if in.Type == domain.InsightConcern {
					t.Fatalf("unanalyzed snapshot must not yield a concern, got %+v", in)
				}
			}

			second, err := svc.GetInsights(ctx, "user-1")
			if err != nil {
				t.Fatalf("second report: %v", err)
			}
			var concern bool
			for _, in := range second {
				if in.Title == "Sustained negative mood in your journal" {
					concern = true
				}
			}
			if !concern {
				t.Fatalf("expected the late analysis to surface a concern, got %+v", second)
			}
		})
	}
}

func TestInsightServiceSkipsCacheWriteAfterInvalidate(t *testing.T) {
	cache := NewMemoryInsightCache(time.Hour)
	fetcher := &mockFetcher{samples: repository.Samples{Mood: risingMoods(14)}}
	svc := newTestInsightService(fetcher, cache)
	ctx := context.Background()

	invalidating := &invalidatingFetcher{inner: fetcher, svc: svc}
	svc.samples = invalidating
	if _, err := svc.Report(ctx, "user-1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "user-1", fetcher.samples.Latest()); ok {
		t.Fatalf("report computed across an invalidation must not be cached")
	}

	svc.samples = fetcher
	if _, err := svc.Report(ctx, "user-1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "user-1", fetcher.samples.Latest()); !ok {
		t.Fatalf("expected a quiet recompute to be cached")
	}
}

type invalidatingFetcher struct {
	inner SampleFetcher
	svc   *InsightService
}

func (f *invalidatingFetcher) FetchSamples(ctx context.Context, userID string, since *time.Time) (repository.Samples, error) {
	out, err := f.inner.FetchSamples(ctx, userID, since)
	if err != nil {
		return out, err
	}
	return out, f.svc.Invalidate(ctx, userID)
}
