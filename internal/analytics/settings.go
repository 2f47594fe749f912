package analytics

import "time"

const (
	// TrendThreshold es la diferencia de medias (puntos de animo) a partir de la
	// cual la tendencia deja de ser estable. Politica fija, no un test estadistico.
	TrendThreshold = 0.5

	DefaultTrendWindowSize     = 7
	DefaultFrequencyPeriodDays = 30
)

// DefaultMilestones son los hitos de racha que generan logros.
var DefaultMilestones = []int{3, 7, 14, 30}

// Settings agrupa los parametros ajustables del motor.
type Settings struct {
	TrendWindowSize     int
	TrendThreshold      float64
	FrequencyPeriodDays int
	// Location fija la politica de dia calendario para todo el motor.
	Location   *time.Location
	Milestones []int
}

func DefaultSettings() Settings {
	return Settings{
		TrendWindowSize:     DefaultTrendWindowSize,
		TrendThreshold:      TrendThreshold,
		FrequencyPeriodDays: DefaultFrequencyPeriodDays,
		Location:            time.UTC,
		Milestones:          append([]int(nil), DefaultMilestones...),
	}
}

func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.TrendWindowSize <= 0 {
		s.TrendWindowSize = d.TrendWindowSize
	}
	if s.TrendThreshold <= 0 {
		s.TrendThreshold = d.TrendThreshold
	}
	if s.FrequencyPeriodDays <= 0 {
		s.FrequencyPeriodDays = d.FrequencyPeriodDays
	}
	if s.Location == nil {
		s.Location = d.Location
	}
	if len(s.Milestones) == 0 {
		s.Milestones = d.Milestones
	}
	return s
}
