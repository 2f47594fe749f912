package analytics

import (
	"time"

	"wellness-insights/internal/domain"
)

// streakRun es la racha actual: dias consecutivos que terminan en el dia de la
// muestra mas reciente.
type streakRun struct {
	Days  int
	Start civilDay
	IDs   []string
}

func streakOf(loc *time.Location, acts []activity) streakRun {
	if len(acts) == 0 {
		return streakRun{}
	}

	byDay := make(map[civilDay][]string, len(acts))
	latest := dayOf(acts[0].at, loc)
	for _, a := range acts {
		d := dayOf(a.at, loc)
		byDay[d] = append(byDay[d], a.id)
		if d > latest {
			latest = d
		}
	}

	run := streakRun{Start: latest}
	for d := latest; ; d-- {
		if _, ok := byDay[d]; !ok {
			break
		}
		run.Days++
		run.Start = d
	}
	for d := run.Start; d <= latest; d++ {
		run.IDs = append(run.IDs, byDay[d]...)
	}
	return run
}

// ComputeStreak cuenta dias consecutivos con al menos un registro (dia UTC).
func ComputeStreak[S domain.Sample](samples []S) int {
	return ComputeStreakIn(time.UTC, samples)
}

// ComputeStreakIn es ComputeStreak con la politica de dia de loc.
func ComputeStreakIn[S domain.Sample](loc *time.Location, samples []S) int {
	return streakOf(loc, toActivities(samples)).Days
}

// ComputeFrequency devuelve registros por semana dentro de los ultimos
// periodDays dias (incluido el dia de now).
func ComputeFrequency[S domain.Sample](samples []S, periodDays int, now time.Time) float64 {
	return ComputeFrequencyIn(time.UTC, samples, periodDays, now)
}

func ComputeFrequencyIn[S domain.Sample](loc *time.Location, samples []S, periodDays int, now time.Time) float64 {
	return frequencyOf(loc, toActivities(samples), periodDays, now)
}

func frequencyOf(loc *time.Location, acts []activity, periodDays int, now time.Time) float64 {
	if periodDays <= 0 {
		return 0
	}
	today := dayOf(now, loc)
	first := today - civilDay(periodDays) + 1
	count := 0
	for _, a := range acts {
		d := dayOf(a.at, loc)
		if d >= first && d <= today {
			count++
		}
	}
	return float64(count) * daysPerWeek / float64(periodDays)
}
