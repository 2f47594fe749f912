package analytics

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"wellness-insights/internal/domain"
)

// sanitize copia y ordena las muestras, descartando las que violan invariantes.
// Nunca falla: cada descarte queda en el log.
func (e *Engine) sanitize(in Input) ([]domain.MoodSample, []domain.JournalSample) {
	moods := make([]domain.MoodSample, 0, len(in.Mood))
	for _, m := range in.Mood {
		if m.ID == "" {
			e.skip(in.UserID, m.ID, "mood sample without id")
			continue
		}
		if !domain.ValidMoodValue(m.Value) {
			e.skip(in.UserID, m.ID, "mood value out of range")
			continue
		}
		if m.SleepHours != nil && (math.IsNaN(*m.SleepHours) || *m.SleepHours < 0 || *m.SleepHours > 24) {
			e.skip(in.UserID, m.ID, "sleep hours out of range")
			m.SleepHours = nil
		}
		if m.StressLevel != nil && !domain.ValidMoodValue(*m.StressLevel) {
			e.skip(in.UserID, m.ID, "stress level out of range")
			m.StressLevel = nil
		}
		if m.EnergyLevel != nil && !domain.ValidMoodValue(*m.EnergyLevel) {
			e.skip(in.UserID, m.ID, "energy level out of range")
			m.EnergyLevel = nil
		}
		moods = append(moods, m)
	}

	journals := make([]domain.JournalSample, 0, len(in.Journal))
	for _, j := range in.Journal {
		if j.ID == "" {
			e.skip(in.UserID, j.ID, "journal sample without id")
			continue
		}
		if j.Analysis != nil {
			if _, ok := j.Sentiment(); !ok {
				// El analisis corrupto se trata como ausente.
				e.skip(in.UserID, j.ID, "sentiment out of range, treated as unanalyzed")
				j.Analysis = nil
			}
		}
		journals = append(journals, j)
	}

	if !slices.IsSortedFunc(moods, domain.CompareSamples[domain.MoodSample]) {
		domain.SortSamples(moods)
	}
	if !slices.IsSortedFunc(journals, domain.CompareSamples[domain.JournalSample]) {
		domain.SortSamples(journals)
	}
	return moods, journals
}

func (e *Engine) skip(userID, sampleID, reason string) {
	e.logger.Warn("sample skipped",
		zap.String("user_id", userID),
		zap.String("sample_id", sampleID),
		zap.String("reason", reason),
	)
}
