package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wellness-insights/internal/domain"
	"wellness-insights/internal/repository"
)

const (
	minJournalLength = 10
	analysisTimeout  = 2 * time.Minute
)

var (
	ErrInvalidMoodValue   = errors.New("mood value must be between 1 and 10")
	ErrInvalidMoodLabel   = errors.New("unknown mood label")
	ErrInvalidSleepHours  = errors.New("sleep hours must be between 0 and 24")
	ErrInvalidMetricLevel = errors.New("stress and energy levels must be between 1 and 10")
	ErrEmptyJournal       = errors.New("journal entry must be at least 10 characters long")
)

type MoodInput struct {
	UserID      string
	Value       int
	Label       string
	Notes       string
	SleepHours  *float64
	StressLevel *int
	EnergyLevel *int
}

type JournalInput struct {
	UserID  string
	Title   string
	Content string
	MoodID  string
}

// SampleService valida y persiste muestras nuevas; cada alta invalida la cache del usuario.
type SampleService struct {
	moods       repository.MoodRepository
	journals    repository.JournalRepository
	analyzer    JournalAnalyzer
	invalidator CacheInvalidator
	logger      *zap.Logger
	now         func() time.Time

	wg sync.WaitGroup
}

func NewSampleService(
	moods repository.MoodRepository,
	journals repository.JournalRepository,
	analyzer JournalAnalyzer,
	invalidator CacheInvalidator,
	logger *zap.Logger,
) *SampleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SampleService{
		moods:       moods,
		journals:    journals,
		analyzer:    analyzer,
		invalidator: invalidator,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *SampleService) RecordMood(ctx context.Context, input MoodInput) (domain.MoodSample, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return domain.MoodSample{}, ErrInvalidUserID
	}
	if !domain.ValidMoodValue(input.Value) {
		return domain.MoodSample{}, ErrInvalidMoodValue
	}
	label, ok := domain.ParseMoodLabel(input.Label)
	if !ok {
		return domain.MoodSample{}, ErrInvalidMoodLabel
	}
	if h := input.SleepHours; h != nil && (math.IsNaN(*h) || *h < 0 || *h > 24) {
		return domain.MoodSample{}, ErrInvalidSleepHours
	}
	if !validLevel(input.StressLevel) || !validLevel(input.EnergyLevel) {
		return domain.MoodSample{}, ErrInvalidMetricLevel
	}

	sample := domain.MoodSample{
		ID:          uuid.NewString(),
		UserID:      userID,
		Value:       input.Value,
		Label:       label,
		Notes:       strings.TrimSpace(input.Notes),
		SleepHours:  input.SleepHours,
		StressLevel: input.StressLevel,
		EnergyLevel: input.EnergyLevel,
		CreatedAt:   s.now(),
	}
	if err := s.moods.Create(ctx, sample); err != nil {
		return domain.MoodSample{}, fmt.Errorf("create mood: %w", err)
	}
	s.invalidate(ctx, userID)

	s.logger.Info("mood recorded", zap.String("user_id", userID), zap.String("mood_id", sample.ID))
	return sample, nil
}

// RecordJournal persiste la entrada sin analizar y dispara el analisis en segundo plano.
func (s *SampleService) RecordJournal(ctx context.Context, input JournalInput) (domain.JournalSample, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return domain.JournalSample{}, ErrInvalidUserID
	}
	content := strings.TrimSpace(input.Content)
	if utf8.RuneCountInString(content) < minJournalLength {
		return domain.JournalSample{}, ErrEmptyJournal
	}

	sample := domain.JournalSample{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     strings.TrimSpace(input.Title),
		Content:   content,
		MoodID:    strings.TrimSpace(input.MoodID),
		CreatedAt: s.now(),
	}
	if err := s.journals.Create(ctx, sample); err != nil {
		return domain.JournalSample{}, fmt.Errorf("create journal: %w", err)
	}
	s.invalidate(ctx, userID)
	s.logger.Info("journal recorded", zap.String("user_id", userID), zap.String("journal_id", sample.ID))

	if s.analyzer != nil {
		s.wg.Add(1)
		// Analisis asincrono para no bloquear el alta.
		go func(journalID string) {
			defer s.wg.Done()
			actx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
			defer cancel()
			if err := s.analyzer.AnalyzeAndPersist(actx, journalID); err != nil {
				s.logger.Warn("analysis failed", zap.Error(err), zap.String("journal_id", journalID))
				return
			}
			s.logger.Debug("analysis finished", zap.String("journal_id", journalID))
		}(sample.ID)
	}
	return sample, nil
}

// Wait bloquea hasta que terminen los analisis en curso.
func (s *SampleService) Wait() {
	s.wg.Wait()
}

func (s *SampleService) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("insight cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func validLevel(v *int) bool {
	return v == nil || (*v >= 1 && *v <= 10)
}
