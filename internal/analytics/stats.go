package analytics

import (
	"math"
	"time"

	"wellness-insights/internal/domain"
)

// civilDay cuenta dias calendario desde epoch en la zona elegida. Dos instantes
// del mismo dia local caen en el mismo valor aunque disten horas entre si.
type civilDay int64

func dayOf(t time.Time, loc *time.Location) civilDay {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return civilDay(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func (d civilDay) String() string {
	return time.Unix(int64(d)*86400, 0).UTC().Format(time.DateOnly)
}

// activity es la vista minima de un registro para rachas y frecuencias.
type activity struct {
	id string
	at time.Time
}

func toActivities[S domain.Sample](samples []S) []activity {
	out := make([]activity, 0, len(samples))
	for _, s := range samples {
		out = append(out, activity{id: s.SampleID(), at: s.RecordedAt()})
	}
	return out
}

func moodMean(samples []domain.MoodSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0
	for _, s := range samples {
		sum += s.Value
	}
	return float64(sum) / float64(len(samples))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// pearson devuelve el coeficiente de correlacion; ok=false si alguna serie no
// tiene varianza.
func pearson(xs, ys []float64) (float64, bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, false
	}
	mx, my := mean(xs), mean(ys)
	var num, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		num += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return num / math.Sqrt(vx*vy), true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
