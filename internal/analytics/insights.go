package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wellness-insights/internal/domain"
)

const (
	// Diferencia de medias que equivale a confianza 1 en la tendencia.
	trendFullConfidenceDelta = 3.0
	// Rango completo de la escala de animo (10 - 1).
	moodScaleSpan = float64(domain.MoodValueMax - domain.MoodValueMin)

	negativeSentimentCutoff = -0.3
	negativeRunMinLength    = 3
	repeatedThemeMinEntries = 2
)

// insightNamespace deriva ids UUIDv5: mismo input, mismo id.
var insightNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("wellness-insights.insight"))

// Input es la foto completa de un usuario. Now es el unico "reloj" del motor.
type Input struct {
	UserID  string
	Mood    []domain.MoodSample
	Journal []domain.JournalSample
	Now     time.Time
}

// Engine es puro respecto de su input: sin estado compartido ni I/O. Puede
// usarse en paralelo para distintos usuarios.
type Engine struct {
	settings Settings
	logger   *zap.Logger
}

func NewEngine(settings Settings, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		settings: settings.normalized(),
		logger:   logger,
	}
}

func (e *Engine) Settings() Settings {
	return e.settings
}

// candidate es un insight antes de validar referencias y asignar id.
type candidate struct {
	key         string
	typ         domain.InsightType
	title       string
	description string
	confidence  float64
	refs        []string
}

// GenerateInsights combina tendencia, patron semanal, rachas, sentimiento y
// correlaciones. El resultado va ordenado por confianza descendente; los
// empates conservan el orden de generacion.
func (e *Engine) GenerateInsights(in Input) []domain.Insight {
	moods, journals := e.sanitize(in)

	var cands []candidate
	cands = append(cands, e.trendInsight(moods)...)
	cands = append(cands, e.weeklyInsight(moods)...)
	cands = append(cands, e.streakInsight(moods, journals)...)
	cands = append(cands, e.journalInsight(journals)...)
	cands = append(cands, e.correlationInsights(moods)...)
	cands = append(cands, e.dominantMoodInsight(moods)...)
	cands = append(cands, e.recentAverageInsights(moods)...)

	known := make(map[string]struct{}, len(moods)+len(journals))
	for _, m := range moods {
		known[m.ID] = struct{}{}
	}
	for _, j := range journals {
		known[j.ID] = struct{}{}
	}

	out := make([]domain.Insight, 0, len(cands))
	for _, c := range cands {
		refs := filterRefs(c.refs, known)
		if len(refs) == 0 || !c.typ.Valid() {
			e.logger.Debug("insight dropped", zap.String("user_id", in.UserID), zap.String("key", c.key))
			continue
		}
		out = append(out, domain.Insight{
			ID:                   insightID(in.UserID, c.key),
			UserID:               in.UserID,
			Type:                 c.typ,
			Title:                c.title,
			Description:          c.description,
			Confidence:           clamp01(c.confidence),
			SupportingReferences: refs,
			CreatedAt:            in.Now,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Insight) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return out
}

func insightID(userID, key string) string {
	return uuid.NewSHA1(insightNamespace, []byte(userID+"|"+key)).String()
}

// filterRefs deja solo ids existentes, sin duplicados, en el orden original.
func filterRefs(refs []string, known map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, id := range refs {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (e *Engine) trendInsight(moods []domain.MoodSample) []candidate {
	tr := AnalyzeTrend(moods, e.settings.TrendWindowSize, e.settings.TrendThreshold)
	refs := append(append([]string(nil), tr.PriorIDs...), tr.RecentIDs...)
	conf := math.Abs(tr.Difference) / trendFullConfidenceDelta

	switch tr.Trend {
	case domain.TrendImproving:
		return []candidate{{
			key:         "trend|improving|" + strings.Join(refs, ","),
			typ:         domain.InsightPattern,
			title:       "Your mood is improving",
			description: fmt.Sprintf("Recent average: %.1f vs previous: %.1f", tr.RecentMean, tr.PriorMean),
			confidence:  conf,
			refs:        refs,
		}}
	case domain.TrendDeclining:
		return []candidate{{
			key:   "trend|declining|" + strings.Join(refs, ","),
			typ:   domain.InsightConcern,
			title: "Your mood has been declining",
			description: fmt.Sprintf("Recent average: %.1f vs previous: %.1f. Consider seeking support or trying stress management techniques.",
				tr.RecentMean, tr.PriorMean),
			confidence: conf,
			refs:       refs,
		}}
	}
	return nil
}

func (e *Engine) weeklyInsight(moods []domain.MoodSample) []candidate {
	p, ok := DetectWeeklyPatternIn(e.settings.Location, moods)
	if !ok {
		return nil
	}
	return []candidate{{
		key:         fmt.Sprintf("weekly|%d|%d|%s", p.BestDay, p.WorstDay, strings.Join(p.SampleIDs, ",")),
		typ:         domain.InsightPattern,
		title:       "Weekly mood pattern",
		description: p.Description,
		confidence:  p.Spread() / moodScaleSpan,
		refs:        p.SampleIDs,
	}}
}

// streakInsight emite un unico logro: el hito mas alto alcanzado por la racha
// actual. El id depende del usuario, del hito y del primer dia de la racha, de
// modo que recalcular la misma racha devuelve el mismo logro.
func (e *Engine) streakInsight(moods []domain.MoodSample, journals []domain.JournalSample) []candidate {
	acts := append(toActivities(moods), toActivities(journals)...)
	run := streakOf(e.settings.Location, acts)

	milestone := 0
	for _, m := range e.settings.Milestones {
		if run.Days >= m && m > milestone {
			milestone = m
		}
	}
	if milestone == 0 {
		return nil
	}
	return []candidate{{
		key:         fmt.Sprintf("streak|%d|%s", milestone, run.Start),
		typ:         domain.InsightAchievement,
		title:       fmt.Sprintf("%d-day streak!", milestone),
		description: fmt.Sprintf("You have checked in %d days in a row. Keep the habit going!", run.Days),
		confidence:  1,
		refs:        run.IDs,
	}}
}

// journalInsight: una racha sostenida de sentimiento negativo genera una
// alerta; si no la hay, un tema repetido genera una recomendacion. Las
// entradas sin analizar no participan.
func (e *Engine) journalInsight(journals []domain.JournalSample) []candidate {
	if c, ok := negativeSentimentRun(journals); ok {
		return []candidate{c}
	}
	if c, ok := repeatedTheme(journals); ok {
		return []candidate{c}
	}
	return nil
}

func negativeSentimentRun(journals []domain.JournalSample) (candidate, bool) {
	var (
		current, last []string
		sum, lastSum  float64
	)
	flush := func() {
		if len(current) >= negativeRunMinLength {
			last, lastSum = current, sum
		}
		current, sum = nil, 0
	}
	for _, j := range journals {
		s, ok := j.Sentiment()
		if !ok {
			// Sin analizar: ni rompe ni extiende la racha.
			continue
		}
		if s < negativeSentimentCutoff {
			current = append(current, j.ID)
			sum += s
			continue
		}
		flush()
	}
	flush()

	if len(last) == 0 {
		return candidate{}, false
	}
	avg := lastSum / float64(len(last))
	return candidate{
		key:   "sentiment|negative|" + strings.Join(last, ","),
		typ:   domain.InsightConcern,
		title: "Sustained negative mood in your journal",
		description: fmt.Sprintf("%d journal entries in a row carried negative sentiment (average %.2f). Consider talking to someone you trust or practicing self-care.",
			len(last), avg),
		confidence: -avg,
		refs:       last,
	}, true
}

func repeatedTheme(journals []domain.JournalSample) (candidate, bool) {
	byTheme := make(map[string][]string)
	withThemes := 0
	for _, j := range journals {
		if _, ok := j.Sentiment(); !ok {
			continue
		}
		seen := make(map[string]struct{})
		for _, raw := range j.Analysis.Themes {
			t := normalizeTheme(raw)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			byTheme[t] = append(byTheme[t], j.ID)
		}
		if len(seen) > 0 {
			withThemes++
		}
	}

	ranked := rankThemes(byTheme)
	if len(ranked) == 0 || len(byTheme[ranked[0]]) < repeatedThemeMinEntries {
		return candidate{}, false
	}
	theme := ranked[0]
	refs := byTheme[theme]
	return candidate{
		key:   "theme|" + theme + "|" + strings.Join(refs, ","),
		typ:   domain.InsightRecommendation,
		title: fmt.Sprintf("Recurring theme: %s", theme),
		description: fmt.Sprintf("%q came up in %d of your journal entries. Consider reflecting on it or exploring related resources.",
			theme, len(refs)),
		confidence: float64(len(refs)) / float64(withThemes),
		refs:       refs,
	}, true
}

// rankThemes ordena por numero de entradas (desc) y alfabeticamente.
func rankThemes(byTheme map[string][]string) []string {
	themes := make([]string, 0, len(byTheme))
	for t := range byTheme {
		themes = append(themes, t)
	}
	slices.SortFunc(themes, func(a, b string) int {
		if c := cmp.Compare(len(byTheme[b]), len(byTheme[a])); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return themes
}

func normalizeTheme(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
