package analytics

import (
	"wellness-insights/internal/domain"
)

const summaryTopThemes = 3

// Summarize arma el resumen del panel con las mismas reglas que los insights.
func (e *Engine) Summarize(in Input) domain.UserAnalytics {
	moods, journals := e.sanitize(in)
	loc := e.settings.Location

	label, _ := mostCommonLabel(moods)

	byTheme := make(map[string][]string)
	for _, j := range journals {
		if j.Analysis == nil {
			continue
		}
		seen := make(map[string]struct{})
		for _, raw := range j.Analysis.Themes {
			t := normalizeTheme(raw)
			if _, dup := seen[t]; dup || t == "" {
				continue
			}
			seen[t] = struct{}{}
			byTheme[t] = append(byTheme[t], j.ID)
		}
	}
	themes := rankThemes(byTheme)
	if len(themes) > summaryTopThemes {
		themes = themes[:summaryTopThemes]
	}

	categories := make(map[domain.MoodCategory]int)
	for _, m := range moods {
		categories[m.Category()]++
	}

	acts := append(toActivities(moods), toActivities(journals)...)

	return domain.UserAnalytics{
		UserID:           in.UserID,
		MoodAverage:      moodMean(moods),
		MoodTrend:        AnalyzeTrend(moods, e.settings.TrendWindowSize, e.settings.TrendThreshold).Trend,
		MoodFrequency:    frequencyOf(loc, toActivities(moods), e.settings.FrequencyPeriodDays, in.Now),
		JournalFrequency: frequencyOf(loc, toActivities(journals), e.settings.FrequencyPeriodDays, in.Now),
		MostCommonMood:   label,
		MostCommonThemes: themes,
		MoodCategories:   categories,
		StreakDays:       streakOf(loc, acts).Days,
		TotalEntries:     len(moods) + len(journals),
		GeneratedAt:      in.Now,
	}
}
