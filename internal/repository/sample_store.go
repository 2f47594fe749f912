package repository

import (
	"context"
	"errors"
	"time"

	"wellness-insights/internal/domain"
)

// ErrSampleNotFound se devuelve cuando la muestra pedida no existe.
var ErrSampleNotFound = errors.New("sample not found")

type MoodRepository interface {
	Create(ctx context.Context, sample domain.MoodSample) error
	ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.MoodSample, error)
}

type JournalRepository interface {
	Create(ctx context.Context, sample domain.JournalSample) error
	GetByID(ctx context.Context, id string) (*domain.JournalSample, error)
	UpdateAnalysis(ctx context.Context, id string, analysis domain.AIAnalysis) error
	ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.JournalSample, error)
}

// Samples es la foto de un usuario que consume el motor.
type Samples struct {
	Mood    []domain.MoodSample
	Journal []domain.JournalSample
}

// Latest devuelve el instante mas reciente de la foto: created_at de ambas series
// y analyzed_at de los analisis. Un analisis tardio cambia el valor aunque no
// haya muestras nuevas. Cero si no hay muestras.
func (s Samples) Latest() time.Time {
	var latest time.Time
	for _, m := range s.Mood {
		if m.CreatedAt.After(latest) {
			latest = m.CreatedAt
		}
	}
	for _, j := range s.Journal {
		if j.CreatedAt.After(latest) {
			latest = j.CreatedAt
		}
		if j.Analysis != nil && j.Analysis.AnalyzedAt.After(latest) {
			latest = j.Analysis.AnalyzedAt
		}
	}
	return latest
}

// Len cuenta las muestras de ambas series.
func (s Samples) Len() int {
	return len(s.Mood) + len(s.Journal)
}

// SampleStore arma la foto completa de un usuario a partir de ambos repositorios.
type SampleStore struct {
	moods    MoodRepository
	journals JournalRepository
}

func NewSampleStore(moods MoodRepository, journals JournalRepository) *SampleStore {
	return &SampleStore{moods: moods, journals: journals}
}

// FetchSamples devuelve ambas series en orden ascendente (created_at, id).
func (s *SampleStore) FetchSamples(ctx context.Context, userID string, since *time.Time) (Samples, error) {
	moods, err := s.moods.ListByUser(ctx, userID, since)
	if err != nil {
		return Samples{}, err
	}
	journals, err := s.journals.ListByUser(ctx, userID, since)
	if err != nil {
		return Samples{}, err
	}
	domain.SortSamples(moods)
	domain.SortSamples(journals)
	return Samples{Mood: moods, Journal: journals}, nil
}
