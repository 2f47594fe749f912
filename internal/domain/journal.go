package domain

import (
	"math"
	"time"
)

const (
	SentimentMin = -1.0
	SentimentMax = 1.0
)

// JournalSample es una entrada de diario. Analysis queda en nil hasta que el
// analisis externo responde ("sin analizar").
type JournalSample struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Title     string      `json:"title,omitempty"`
	Content   string      `json:"content"`
	MoodID    string      `json:"mood_id,omitempty"`
	Analysis  *AIAnalysis `json:"ai_analysis,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (j JournalSample) SampleID() string      { return j.ID }
func (j JournalSample) RecordedAt() time.Time { return j.CreatedAt }

// Analyzed reporta si el colaborador de IA ya devolvio resultado.
func (j JournalSample) Analyzed() bool {
	return j.Analysis != nil
}

// Sentiment devuelve el sentimiento solo si existe y es valido.
// Una entrada sin analizar nunca equivale a sentimiento cero.
func (j JournalSample) Sentiment() (float64, bool) {
	if j.Analysis == nil {
		return 0, false
	}
	s := j.Analysis.Sentiment
	if math.IsNaN(s) || s < SentimentMin || s > SentimentMax {
		return 0, false
	}
	return s, true
}

// AIAnalysis es el resultado estructurado del analisis de una entrada.
type AIAnalysis struct {
	Sentiment     float64       `json:"sentiment"` // -1 a 1
	Themes        []string      `json:"themes"`
	Keywords      []string      `json:"keywords"`
	Insights      []string      `json:"insights,omitempty"`
	EmotionScores EmotionScores `json:"emotion_scores"`
	AnalyzedAt    time.Time     `json:"analyzed_at"`
}

// EmotionScores usa escala 0-1 por emocion.
type EmotionScores struct {
	Joy      float64 `json:"joy"`
	Sadness  float64 `json:"sadness"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Surprise float64 `json:"surprise"`
	Disgust  float64 `json:"disgust"`
}
