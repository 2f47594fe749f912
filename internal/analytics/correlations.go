package analytics

import (
	"fmt"
	"math"
	"strings"

	"wellness-insights/internal/domain"
)

const (
	correlationMinPairs  = 6 // mas de 5 pares
	correlationThreshold = 0.3

	dominantMoodMinSamples = 7
	dominantNegativeShare  = 0.3

	recentWindow       = 7
	recentMinSamples   = 3
	sleepTargetHours   = 7.0
	stressHighLevel    = 7.0
	lowMoodLevel       = 5.0
	moderateMoodLevel  = 7.0
	priorityHighConf   = 0.8
	priorityMediumConf = 0.6
	priorityLowConf    = 0.4
)

type metricPairs struct {
	xs, ys []float64
	ids    []string
}

// correlationInsights relaciona sueño y estres con el animo (Pearson).
func (e *Engine) correlationInsights(moods []domain.MoodSample) []candidate {
	var sleep, stress metricPairs
	for _, m := range moods {
		if m.SleepHours != nil {
			sleep.xs = append(sleep.xs, *m.SleepHours)
			sleep.ys = append(sleep.ys, float64(m.Value))
			sleep.ids = append(sleep.ids, m.ID)
		}
		if m.StressLevel != nil {
			stress.xs = append(stress.xs, float64(*m.StressLevel))
			stress.ys = append(stress.ys, float64(m.Value))
			stress.ids = append(stress.ids, m.ID)
		}
	}

	var out []candidate
	if len(sleep.ids) >= correlationMinPairs {
		if r, ok := pearson(sleep.xs, sleep.ys); ok && (r > correlationThreshold || r < -correlationThreshold) {
			c := candidate{
				key:        "correlation|sleep|" + strings.Join(sleep.ids, ","),
				typ:        domain.InsightPattern,
				confidence: math.Abs(r),
				refs:       sleep.ids,
			}
			if r > 0 {
				c.title = "Sleep and mood go together"
				c.description = fmt.Sprintf("Better sleep is correlated with better mood (correlation: %.2f)", r)
			} else {
				c.title = "Sleep may be affecting your mood"
				c.description = fmt.Sprintf("Sleep patterns may be affecting your mood (correlation: %.2f)", r)
			}
			out = append(out, c)
		}
	}
	if len(stress.ids) >= correlationMinPairs {
		if r, ok := pearson(stress.xs, stress.ys); ok && r < -correlationThreshold {
			out = append(out, candidate{
				key:         "correlation|stress|" + strings.Join(stress.ids, ","),
				typ:         domain.InsightConcern,
				title:       "Stress is weighing on your mood",
				description: fmt.Sprintf("High stress levels are negatively impacting your mood (correlation: %.2f)", r),
				confidence:  -r,
				refs:        stress.ids,
			})
		}
	}
	return out
}

// dominantMoodInsight mira la etiqueta mas frecuente. Los empates se resuelven
// por el orden de domain.MoodLabels.
func (e *Engine) dominantMoodInsight(moods []domain.MoodSample) []candidate {
	if len(moods) < dominantMoodMinSamples {
		return nil
	}
	label, ids := mostCommonLabel(moods)
	if label == "" {
		return nil
	}
	share := float64(len(ids)) / float64(len(moods))

	switch label.Valence() {
	case domain.ValenceNegative:
		if share <= dominantNegativeShare {
			return nil
		}
		return []candidate{{
			key:         "dominant|" + string(label) + "|" + strings.Join(ids, ","),
			typ:         domain.InsightConcern,
			title:       fmt.Sprintf("You've been feeling %s frequently", label),
			description: "Consider talking to someone or practicing self-care.",
			confidence:  share,
			refs:        ids,
		}}
	case domain.ValencePositive:
		return []candidate{{
			key:         "dominant|" + string(label) + "|" + strings.Join(ids, ","),
			typ:         domain.InsightPattern,
			title:       fmt.Sprintf("You're feeling %s often", label),
			description: fmt.Sprintf("Great to see you're feeling %s often! Keep up whatever you're doing.", label),
			confidence:  share,
			refs:        ids,
		}}
	}
	return nil
}

func mostCommonLabel(moods []domain.MoodSample) (domain.MoodLabel, []string) {
	byLabel := make(map[domain.MoodLabel][]string)
	for _, m := range moods {
		byLabel[m.Label] = append(byLabel[m.Label], m.ID)
	}
	var best domain.MoodLabel
	for _, l := range domain.MoodLabels() {
		if len(byLabel[l]) > len(byLabel[best]) {
			best = l
		}
	}
	return best, byLabel[best]
}

// recentAverageInsights genera recomendaciones a partir de los ultimos siete
// check-ins. Con menos de tres solo sugiere seguir registrando.
func (e *Engine) recentAverageInsights(moods []domain.MoodSample) []candidate {
	if len(moods) == 0 {
		return nil
	}
	if len(moods) < recentMinSamples {
		ids := domain.SampleIDs(moods)
		return []candidate{{
			key:         "recommend|keep-tracking|" + strings.Join(ids, ","),
			typ:         domain.InsightRecommendation,
			title:       "Keep tracking",
			description: "Continue logging your mood daily to get personalized insights and recommendations.",
			confidence:  priorityMediumConf,
			refs:        ids,
		}}
	}
	recent := moods
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	recentIDs := domain.SampleIDs(recent)
	joined := strings.Join(recentIDs, ",")

	var (
		sleep, stress       []float64
		sleepIDs, stressIDs []string
	)
	for _, m := range recent {
		if m.SleepHours != nil {
			sleep = append(sleep, *m.SleepHours)
			sleepIDs = append(sleepIDs, m.ID)
		}
		if m.StressLevel != nil {
			stress = append(stress, float64(*m.StressLevel))
			stressIDs = append(stressIDs, m.ID)
		}
	}

	var out []candidate
	if len(sleep) > 0 {
		if avg := mean(sleep); avg < sleepTargetHours {
			out = append(out, candidate{
				key:         "recommend|sleep|" + joined,
				typ:         domain.InsightRecommendation,
				title:       "Improve sleep quality",
				description: fmt.Sprintf("You're averaging %.1f hours of sleep. Try to aim for 7-9 hours for better mood and energy.", avg),
				confidence:  priorityHighConf,
				refs:        sleepIDs,
			})
		}
	}
	if len(stress) > 0 && mean(stress) > stressHighLevel {
		out = append(out, candidate{
			key:         "recommend|stress|" + joined,
			typ:         domain.InsightRecommendation,
			title:       "Manage stress levels",
			description: "Your stress levels have been high. Consider meditation, deep breathing, or talking to someone.",
			confidence:  priorityHighConf,
			refs:        stressIDs,
		})
	}

	avgMood := moodMean(recent)
	if avgMood < lowMoodLevel {
		out = append(out, candidate{
			key:         "recommend|support|" + joined,
			typ:         domain.InsightRecommendation,
			title:       "Seek support",
			description: "Your mood has been low recently. Consider reaching out to friends, family, or a mental health professional.",
			confidence:  priorityHighConf,
			refs:        recentIDs,
		})
	}
	switch {
	case avgMood < moderateMoodLevel:
		out = append(out, candidate{
			key:         "recommend|activity|" + joined,
			typ:         domain.InsightRecommendation,
			title:       "Try mood-boosting activities",
			description: "Consider activities like exercise, spending time in nature, or pursuing hobbies you enjoy.",
			confidence:  priorityMediumConf,
			refs:        recentIDs,
		})
	case avgMood > moderateMoodLevel:
		out = append(out, candidate{
			key:         "recommend|keep-up|" + joined,
			typ:         domain.InsightRecommendation,
			title:       "Keep it up!",
			description: "You're doing great! Continue with whatever strategies are working for you.",
			confidence:  priorityLowConf,
			refs:        recentIDs,
		})
	}
	return out
}
