package analytics

import (
	"fmt"
	"time"

	"wellness-insights/internal/domain"
)

// monday es un lunes a media mañana (UTC).
var monday = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func moodOn(id string, day int, value int) domain.MoodSample {
	return domain.MoodSample{
		ID:        id,
		UserID:    "user-1",
		Value:     value,
		Label:     domain.MoodOkay,
		CreatedAt: monday.AddDate(0, 0, day),
	}
}

// moodSeries crea un check-in diario por valor, empezando el lunes.
func moodSeries(values ...int) []domain.MoodSample {
	out := make([]domain.MoodSample, 0, len(values))
	for i, v := range values {
		out = append(out, moodOn(fmt.Sprintf("m%d", i), i, v))
	}
	return out
}

func journalOn(id string, day int, sentiment *float64, themes ...string) domain.JournalSample {
	j := domain.JournalSample{
		ID:        id,
		UserID:    "user-1",
		Content:   "entrada de prueba para el diario",
		CreatedAt: monday.AddDate(0, 0, day),
	}
	if sentiment != nil {
		j.Analysis = &domain.AIAnalysis{Sentiment: *sentiment, Themes: themes}
	}
	return j
}

func ptr[T any](v T) *T { return &v }
