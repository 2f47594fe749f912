package analytics

import "wellness-insights/internal/domain"

// TrendResult detalla la comparacion entre la ventana reciente y la previa.
type TrendResult struct {
	Trend      domain.Trend
	PriorMean  float64
	RecentMean float64
	Difference float64
	PriorIDs   []string
	RecentIDs  []string
}

// ClassifyTrend clasifica la direccion del animo con el umbral por defecto.
func ClassifyTrend(samples []domain.MoodSample, windowSize int) domain.Trend {
	return AnalyzeTrend(samples, windowSize, TrendThreshold).Trend
}

// AnalyzeTrend compara las dos ventanas disjuntas y contiguas del final de la
// secuencia (ya ordenada). Las muestras anteriores a 2*windowSize se ignoran.
func AnalyzeTrend(samples []domain.MoodSample, windowSize int, threshold float64) TrendResult {
	if windowSize <= 0 || len(samples) < 2*windowSize {
		return TrendResult{Trend: domain.TrendInsufficientData}
	}
	if threshold <= 0 {
		threshold = TrendThreshold
	}

	tail := samples[len(samples)-2*windowSize:]
	prior, recent := tail[:windowSize], tail[windowSize:]

	res := TrendResult{
		PriorMean:  moodMean(prior),
		RecentMean: moodMean(recent),
		PriorIDs:   domain.SampleIDs(prior),
		RecentIDs:  domain.SampleIDs(recent),
	}
	res.Difference = res.RecentMean - res.PriorMean

	switch {
	case res.Difference > threshold:
		res.Trend = domain.TrendImproving
	case res.Difference < -threshold:
		res.Trend = domain.TrendDeclining
	default:
		res.Trend = domain.TrendStable
	}
	return res
}
