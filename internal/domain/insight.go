package domain

import "time"

type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightRecommendation InsightType = "recommendation"
	InsightAchievement    InsightType = "achievement"
	InsightConcern        InsightType = "concern"
)

func (t InsightType) Valid() bool {
	switch t {
	case InsightPattern, InsightRecommendation, InsightAchievement, InsightConcern:
		return true
	}
	return false
}

// Insight es un registro derivado y efimero: se recalcula a demanda y nunca es
// fuente de verdad.
type Insight struct {
	ID                   string      `json:"id"`
	UserID               string      `json:"user_id"`
	Type                 InsightType `json:"type"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Confidence           float64     `json:"confidence"` // 0-1
	SupportingReferences []string    `json:"supporting_references"`
	CreatedAt            time.Time   `json:"created_at"`
}

// Trend es la clasificacion de direccion del animo.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendInsufficientData Trend = "insufficient_data"
)

// UserAnalytics resume la actividad de un usuario para el panel.
type UserAnalytics struct {
	UserID           string               `json:"user_id"`
	MoodAverage      float64              `json:"mood_average"`
	MoodTrend        Trend                `json:"mood_trend"`
	MoodFrequency    float64              `json:"mood_frequency"`    // check-ins por semana
	JournalFrequency float64              `json:"journal_frequency"` // entradas por semana
	MostCommonMood   MoodLabel            `json:"most_common_mood,omitempty"`
	MostCommonThemes []string             `json:"most_common_themes"`
	MoodCategories   map[MoodCategory]int `json:"mood_categories"` // check-ins por tramo
	StreakDays       int                  `json:"streak_days"`
	TotalEntries     int                  `json:"total_entries"`
	GeneratedAt      time.Time            `json:"generated_at"`
}
