package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wellness-insights/internal/db"
	"wellness-insights/internal/domain"
)

var base = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestGormMoodRepositoryListByUserOrdersAndFilters(t *testing.T) {
	gdb := setupStoreTestDB(t)
	repo := NewGormMoodRepository(gdb)
	ctx := context.Background()

	sleep := 6.5
	stress := 4
	samples := []domain.MoodSample{
		{ID: "m3", UserID: "u1", Value: 7, Label: domain.MoodGood, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "m1", UserID: "u1", Value: 5, Label: domain.MoodOkay, SleepHours: &sleep, StressLevel: &stress, CreatedAt: base},
		{ID: "m2b", UserID: "u1", Value: 6, Label: domain.MoodContent, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "m2a", UserID: "u1", Value: 4, Label: domain.MoodTired, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "other", UserID: "u2", Value: 9, Label: domain.MoodGreat, CreatedAt: base},
	}
	for _, s := range samples {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s): %v", s.ID, err)
		}
	}

	got, err := repo.ListByUser(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	ids := domain.SampleIDs(got)
	if strings.Join(ids, ",") != "m1,m2a,m2b,m3" {
		t.Fatalf("unexpected order %v", ids)
	}
	if got[0].SleepHours == nil || *got[0].SleepHours != 6.5 || got[0].StressLevel == nil || *got[0].StressLevel != 4 {
		t.Fatalf("optional metrics not round-tripped: %+v", got[0])
	}
	if got[1].SleepHours != nil || got[1].EnergyLevel != nil {
		t.Fatalf("expected absent metrics to stay nil: %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(base) || got[0].Label != domain.MoodOkay {
		t.Fatalf("unexpected first sample %+v", got[0])
	}

	since := base.Add(24 * time.Hour)
	recent, err := repo.ListByUser(ctx, "u1", &since)
	if err != nil {
		t.Fatalf("ListByUser since: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 samples since %v, got %d", since, len(recent))
	}
}

func TestGormJournalRepositoryAnalysisLifecycle(t *testing.T) {
	gdb := setupStoreTestDB(t)
	repo := NewGormJournalRepository(gdb)
	ctx := context.Background()

	entry := domain.JournalSample{ID: "j1", UserID: "u1", Title: "Monday", Content: "Long day at work, slept badly.", CreatedAt: base}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := repo.GetByID(ctx, "j1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Analyzed() {
		t.Fatalf("expected new entry to be unanalyzed")
	}

	analysis := domain.AIAnalysis{
		Sentiment:     -0.4,
		Themes:        []string{"work", "sleep"},
		Keywords:      []string{"tired"},
		EmotionScores: domain.EmotionScores{Sadness: 0.6},
		AnalyzedAt:    base.Add(time.Minute),
	}
	if err := repo.UpdateAnalysis(ctx, "j1", analysis); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}

	list, err := repo.ListByUser(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one entry, got %d", len(list))
	}
	s, ok := list[0].Sentiment()
	if !ok || s != -0.4 {
		t.Fatalf("expected sentiment -0.4, got %v (ok=%v)", s, ok)
	}
	if len(list[0].Analysis.Themes) != 2 || list[0].Analysis.EmotionScores.Sadness != 0.6 {
		t.Fatalf("unexpected analysis %+v", list[0].Analysis)
	}
}

func TestGormJournalRepositoryNotFound(t *testing.T) {
	gdb := setupStoreTestDB(t)
	repo := NewGormJournalRepository(gdb)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("expected ErrSampleNotFound, got %v", err)
	}
	if err := repo.UpdateAnalysis(ctx, "missing", domain.AIAnalysis{}); !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("expected ErrSampleNotFound on update, got %v", err)
	}
}
