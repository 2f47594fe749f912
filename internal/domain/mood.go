package domain

import (
	"strings"
	"time"
)

const (
	MoodValueMin = 1
	MoodValueMax = 10
)

// MoodLabel es la etiqueta enumerada que acompaña cada check-in.
type MoodLabel string

const (
	MoodGreat      MoodLabel = "great"
	MoodGood       MoodLabel = "good"
	MoodOkay       MoodLabel = "okay"
	MoodSad        MoodLabel = "sad"
	MoodAngry      MoodLabel = "angry"
	MoodAnxious    MoodLabel = "anxious"
	MoodExcited    MoodLabel = "excited"
	MoodTired      MoodLabel = "tired"
	MoodContent    MoodLabel = "content"
	MoodFrustrated MoodLabel = "frustrated"
)

// moodLabels fija el orden de iteracion (y de desempate) de las etiquetas.
var moodLabels = []MoodLabel{
	MoodGreat, MoodGood, MoodOkay, MoodSad, MoodAngry,
	MoodAnxious, MoodExcited, MoodTired, MoodContent, MoodFrustrated,
}

// MoodLabels devuelve todas las etiquetas conocidas en orden estable.
func MoodLabels() []MoodLabel {
	out := make([]MoodLabel, len(moodLabels))
	copy(out, moodLabels)
	return out
}

// ParseMoodLabel normaliza y valida una etiqueta recibida desde fuera.
func ParseMoodLabel(raw string) (MoodLabel, bool) {
	l := MoodLabel(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range moodLabels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// Valence clasifica la etiqueta como positiva, negativa o neutral.
type Valence int

const (
	ValenceNeutral Valence = iota
	ValencePositive
	ValenceNegative
)

func (l MoodLabel) Valence() Valence {
	switch l {
	case MoodGreat, MoodGood, MoodExcited, MoodContent:
		return ValencePositive
	case MoodSad, MoodAngry, MoodAnxious, MoodFrustrated:
		return ValenceNegative
	default:
		return ValenceNeutral
	}
}

// MoodCategory agrupa el valor numerico en cuatro tramos.
type MoodCategory string

const (
	MoodCategoryPositive MoodCategory = "positive"
	MoodCategoryNeutral  MoodCategory = "neutral"
	MoodCategoryLow      MoodCategory = "low"
	MoodCategoryNegative MoodCategory = "negative"
)

// MoodSample es un check-in de animo. Inmutable una vez registrado.
type MoodSample struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Value       int       `json:"mood_value"` // 1-10
	Label       MoodLabel `json:"mood_label"`
	Notes       string    `json:"notes,omitempty"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	StressLevel *int      `json:"stress_level,omitempty"` // 1-10
	EnergyLevel *int      `json:"energy_level,omitempty"` // 1-10
	CreatedAt   time.Time `json:"created_at"`
}

func (m MoodSample) SampleID() string      { return m.ID }
func (m MoodSample) RecordedAt() time.Time { return m.CreatedAt }

// Category deriva el tramo a partir del valor.
func (m MoodSample) Category() MoodCategory {
	switch {
	case m.Value >= 8:
		return MoodCategoryPositive
	case m.Value >= 6:
		return MoodCategoryNeutral
	case m.Value >= 4:
		return MoodCategoryLow
	default:
		return MoodCategoryNegative
	}
}

// ValidMoodValue indica si el valor esta dentro de la escala 1-10.
func ValidMoodValue(v int) bool {
	return v >= MoodValueMin && v <= MoodValueMax
}
