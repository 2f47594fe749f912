package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"wellness-insights/internal/domain"
	"wellness-insights/internal/llm"
	"wellness-insights/internal/repository"
)

const (
	maxThemeLength   = 50
	maxKeywordLength = 30
	maxThemes        = 10
	maxKeywords      = 15
	maxTextInsights  = 5
)

// JournalAnalyzer es el contrato del colaborador que analiza entradas.
type JournalAnalyzer interface {
	AnalyzeAndPersist(ctx context.Context, journalID string) error
}

// CacheInvalidator descarta resultados cacheados de un usuario.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// JournalAnalysisService usa el LLM para extraer sentimiento, temas y emociones de una entrada.
type JournalAnalysisService struct {
	llmClient   llm.LLMClient
	journalRepo repository.JournalRepository
	invalidator CacheInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

func NewJournalAnalysisService(
	llmClient llm.LLMClient,
	journalRepo repository.JournalRepository,
	invalidator CacheInvalidator,
	logger *zap.Logger,
) *JournalAnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalAnalysisService{
		llmClient:   llmClient,
		journalRepo: journalRepo,
		invalidator: invalidator,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AnalyzeAndPersist analiza la entrada guardada, persiste el resultado e invalida la cache del usuario.
// Si falla, la entrada queda sin analizar.
func (s *JournalAnalysisService) AnalyzeAndPersist(ctx context.Context, journalID string) error {
	entry, err := s.journalRepo.GetByID(ctx, journalID)
	if err != nil {
		return fmt.Errorf("get journal %s: %w", journalID, err)
	}

	analysis, err := s.Analyze(ctx, entry.Title, entry.Content)
	if err != nil {
		s.logger.Warn("journal analysis failed",
			zap.String("journal_id", journalID),
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
		return err
	}

	if err := s.journalRepo.UpdateAnalysis(ctx, journalID, analysis); err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, entry.UserID); err != nil {
			s.logger.Warn("insight cache invalidation failed", zap.String("user_id", entry.UserID), zap.Error(err))
		}
	}

	s.logger.Info("journal analyzed",
		zap.String("journal_id", journalID),
		zap.Float64("sentiment", analysis.Sentiment),
		zap.Int("themes", len(analysis.Themes)),
	)
	return nil
}

// Analyze pide el analisis al LLM y normaliza la respuesta sin persistir nada.
func (s *JournalAnalysisService) Analyze(ctx context.Context, title, content string) (domain.AIAnalysis, error) {
	rawResp, err := s.llmClient.Generate(ctx, buildJournalAnalysisPrompt(title, content))
	if err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("llm generate: %w", err)
	}

	var parsed journalAnalysisResponse
	if err := decodeLLMJSON(rawResp, &parsed); err != nil {
		return domain.AIAnalysis{}, err
	}
	if parsed.Sentiment == nil {
		return domain.AIAnalysis{}, fmt.Errorf("parse llm response: missing sentiment")
	}

	return domain.AIAnalysis{
		Sentiment:     clampRange(*parsed.Sentiment, domain.SentimentMin, domain.SentimentMax),
		Themes:        normalizeTerms(parsed.Themes, maxThemeLength, maxThemes),
		Keywords:      normalizeTerms(parsed.Keywords, maxKeywordLength, maxKeywords),
		Insights:      normalizeSentences(parsed.Insights, maxTextInsights),
		EmotionScores: clampEmotions(parsed.EmotionScores),
		AnalyzedAt:    s.now(),
	}, nil
}

func buildJournalAnalysisPrompt(title, content string) string {
	const instructions = `You analyze private wellness journal entries. Read the entry and return ONLY a JSON object with this shape:
{
  "sentiment": 0.0,
  "themes": ["work", "sleep"],
  "keywords": ["deadline", "tired"],
  "insights": ["One short observation about the writer's state."],
  "emotion_scores": {"joy": 0.0, "sadness": 0.0, "anger": 0.0, "fear": 0.0, "surprise": 0.0, "disgust": 0.0}
}

Rules:
- sentiment ranges from -1 (very negative) to 1 (very positive).
- themes are short topics (1-3 words); keywords are single salient words.
- emotion_scores range from 0 to 1 each.
- Do not include any text outside the JSON object.`

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nEntry")
	if t := strings.TrimSpace(title); t != "" {
		b.WriteString(" titled \"")
		b.WriteString(t)
		b.WriteString("\"")
	}
	b.WriteString(":\n")
	b.WriteString(strings.TrimSpace(content))
	return b.String()
}

// journalAnalysisResponse es el JSON que devuelve el LLM analista.
type journalAnalysisResponse struct {
	Sentiment     *float64             `json:"sentiment"`
	Themes        []string             `json:"themes"`
	Keywords      []string             `json:"keywords"`
	Insights      []string             `json:"insights"`
	EmotionScores domain.EmotionScores `json:"emotion_scores"`
}

func clampEmotions(e domain.EmotionScores) domain.EmotionScores {
	return domain.EmotionScores{
		Joy:      clampRange(e.Joy, 0, 1),
		Sadness:  clampRange(e.Sadness, 0, 1),
		Anger:    clampRange(e.Anger, 0, 1),
		Fear:     clampRange(e.Fear, 0, 1),
		Surprise: clampRange(e.Surprise, 0, 1),
		Disgust:  clampRange(e.Disgust, 0, 1),
	}
}

func clampRange(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// normalizeTerms recorta, pasa a minusculas, descarta vacios y duplicados y trunca por runas.
func normalizeTerms(raw []string, maxLen, maxCount int) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, term := range raw {
		t := strings.ToLower(strings.Join(strings.Fields(term), " "))
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > maxLen {
			t = strings.TrimSpace(string([]rune(t)[:maxLen]))
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxCount {
			break
		}
	}
	return out
}

func normalizeSentences(raw []string, maxCount int) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxCount {
			break
		}
	}
	return out
}
