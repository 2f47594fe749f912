package analytics

import (
	"fmt"
	"time"

	"wellness-insights/internal/domain"
)

const daysPerWeek = 7

// weekdayBucket acumula las muestras de un dia de la semana.
type weekdayBucket struct {
	sum   int
	count int
	ids   []string
}

func (b weekdayBucket) mean() float64 {
	return float64(b.sum) / float64(b.count)
}

// WeeklyPattern describe el mejor y el peor dia de la semana.
type WeeklyPattern struct {
	BestDay     time.Weekday
	BestMean    float64
	WorstDay    time.Weekday
	WorstMean   float64
	Description string
	// SampleIDs son las muestras de los dos dias comparados.
	SampleIDs []string
}

// Spread es la distancia entre las medias del mejor y el peor dia.
func (p WeeklyPattern) Spread() float64 {
	return p.BestMean - p.WorstMean
}

// DetectWeeklyPattern agrupa por dia de la semana en UTC.
func DetectWeeklyPattern(samples []domain.MoodSample) (WeeklyPattern, bool) {
	return DetectWeeklyPatternIn(time.UTC, samples)
}

// DetectWeeklyPatternIn usa siete cubetas fijas (Sunday=0..Saturday=6). Los
// empates se resuelven a favor del primer dia en ese orden. Sin patron si hay
// menos de dos dias con datos o si el mejor y el peor coinciden.
func DetectWeeklyPatternIn(loc *time.Location, samples []domain.MoodSample) (WeeklyPattern, bool) {
	if loc == nil {
		loc = time.UTC
	}
	var buckets [daysPerWeek]weekdayBucket
	for _, s := range samples {
		b := &buckets[s.CreatedAt.In(loc).Weekday()]
		b.sum += s.Value
		b.count++
		b.ids = append(b.ids, s.ID)
	}

	best, worst := -1, -1
	nonEmpty := 0
	for day := 0; day < daysPerWeek; day++ {
		if buckets[day].count == 0 {
			continue
		}
		nonEmpty++
		m := buckets[day].mean()
		if best == -1 || m > buckets[best].mean() {
			best = day
		}
		if worst == -1 || m < buckets[worst].mean() {
			worst = day
		}
	}
	if nonEmpty < 2 || best == worst {
		return WeeklyPattern{}, false
	}

	p := WeeklyPattern{
		BestDay:   time.Weekday(best),
		BestMean:  buckets[best].mean(),
		WorstDay:  time.Weekday(worst),
		WorstMean: buckets[worst].mean(),
	}
	p.SampleIDs = append(append(p.SampleIDs, buckets[best].ids...), buckets[worst].ids...)
	p.Description = fmt.Sprintf("You tend to feel best on %ss (avg: %.1f) and worst on %ss (avg: %.1f)",
		p.BestDay, p.BestMean, p.WorstDay, p.WorstMean)
	return p, true
}
