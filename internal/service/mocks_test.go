package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"wellness-insights/internal/domain"
	"wellness-insights/internal/repository"
)

type mockMoodRepo struct {
	mu      sync.Mutex
	created []domain.MoodSample
	err     error
}

func (m *mockMoodRepo) Create(ctx context.Context, sample domain.MoodSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, sample)
	return nil
}

func (m *mockMoodRepo) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.MoodSample, error) {
	return nil, errors.New("not implemented")
}

type mockJournalRepo struct {
	mu        sync.Mutex
	entries   map[string]domain.JournalSample
	createErr error
	updateErr error
	updates   int
}

func newMockJournalRepo(entries ...domain.JournalSample) *mockJournalRepo {
	m := &mockJournalRepo{entries: map[string]domain.JournalSample{}}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

func (m *mockJournalRepo) Create(ctx context.Context, sample domain.JournalSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.entries[sample.ID] = sample
	return nil
}

func (m *mockJournalRepo) GetByID(ctx context.Context, id string) (*domain.JournalSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, repository.ErrSampleNotFound
	}
	return &e, nil
}

func (m *mockJournalRepo) UpdateAnalysis(ctx context.Context, id string, analysis domain.AIAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	e, ok := m.entries[id]
	if !ok {
		return repository.ErrSampleNotFound
	}
	e.Analysis = &analysis
	m.entries[id] = e
	m.updates++
	return nil
}

func (m *mockJournalRepo) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.JournalSample, error) {
	return nil, errors.New("not implemented")
}

func (m *mockJournalRepo) get(id string) domain.JournalSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[id]
}

type mockInvalidator struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (m *mockInvalidator) Invalidate(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, userID)
	return m.err
}

func (m *mockInvalidator) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.users...)
}

type mockAnalyzer struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (m *mockAnalyzer) AnalyzeAndPersist(ctx context.Context, journalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, journalID)
	return m.err
}

type mockFetcher struct {
	samples repository.Samples
	err     error
	calls   int
}

func (m *mockFetcher) FetchSamples(ctx context.Context, userID string, since *time.Time) (repository.Samples, error) {
	m.calls++
	return m.samples, m.err
}

// failingCache siempre falla; el servicio debe seguir respondiendo.
type failingCache struct{}

func (failingCache) Get(ctx context.Context, userID string, latest time.Time) (InsightReport, bool, error) {
	return InsightReport{}, false, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, report InsightReport) error {
	return errors.New("cache down")
}

func (failingCache) Invalidate(ctx context.Context, userID string) error {
	return errors.New("cache down")
}
