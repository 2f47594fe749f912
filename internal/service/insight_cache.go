package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wellness-insights/internal/domain"
)

const defaultInsightCacheTTL = 6 * time.Hour

// InsightReport es lo que se cachea por (usuario, ultima muestra).
type InsightReport struct {
	UserID       string               `json:"user_id"`
	LatestSample time.Time            `json:"latest_sample"`
	Insights     []domain.Insight     `json:"insights"`
	Summary      domain.UserAnalytics `json:"summary"`
}

// InsightCache guarda reportes calculados. Una clave con otra ultima muestra es un miss.
type InsightCache interface {
	Get(ctx context.Context, userID string, latest time.Time) (InsightReport, bool, error)
	Set(ctx context.Context, report InsightReport) error
	Invalidate(ctx context.Context, userID string) error
}

type memoryInsightEntry struct {
	report    InsightReport
	expiresAt time.Time
}

type memoryInsightCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryInsightEntry
}

func NewMemoryInsightCache(ttl time.Duration) InsightCache {
	if ttl <= 0 {
		ttl = defaultInsightCacheTTL
	}
	return &memoryInsightCache{
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[string]memoryInsightEntry),
	}
}

func (c *memoryInsightCache) Get(_ context.Context, userID string, latest time.Time) (InsightReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[userID]
	if !ok {
		return InsightReport{}, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.items, userID)
		return InsightReport{}, false, nil
	}
	if !entry.report.LatestSample.Equal(latest) {
		return InsightReport{}, false, nil
	}
	return entry.report, true, nil
}

// Set reemplaza la entrada del usuario; solo la ultima foto puede ser valida.
func (c *memoryInsightCache) Set(_ context.Context, report InsightReport) error {
	if strings.TrimSpace(report.UserID) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[report.UserID] = memoryInsightEntry{
		report:    report,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

func (c *memoryInsightCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	return nil
}

// SET del valor y alta en el indice del usuario en un solo paso.
const redisInsightSetScript = `
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SADD", KEYS[2], KEYS[1])
redis.call("PEXPIRE", KEYS[2], ARGV[2])
return 1
`

// Borra todas las claves indexadas del usuario y el indice.
const redisInsightInvalidateScript = `
local keys = redis.call("SMEMBERS", KEYS[1])
for _, k in ipairs(keys) do
  redis.call("DEL", k)
end
redis.call("DEL", KEYS[1])
return #keys
`

type redisInsightClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisInsightCache struct {
	client  redisInsightClient
	ttl     time.Duration
	prefix  string
	timeout time.Duration
}

func NewRedisInsightCache(client *redis.Client, ttl time.Duration) InsightCache {
	if client == nil {
		return nil
	}
	return newRedisInsightCache(client, ttl)
}

func newRedisInsightCache(client redisInsightClient, ttl time.Duration) *redisInsightCache {
	if ttl <= 0 {
		ttl = defaultInsightCacheTTL
	}
	return &redisInsightCache{
		client:  client,
		ttl:     ttl,
		prefix:  "insights:",
		timeout: 500 * time.Millisecond,
	}
}

func (c *redisInsightCache) valueKey(userID string, latest time.Time) string {
	return c.prefix + userID + ":" + strconv.FormatInt(latest.UnixNano(), 10)
}

func (c *redisInsightCache) indexKey(userID string) string {
	return c.prefix + "idx:" + userID
}

func (c *redisInsightCache) Get(ctx context.Context, userID string, latest time.Time) (InsightReport, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.valueKey(userID, latest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return InsightReport{}, false, nil
		}
		return InsightReport{}, false, err
	}
	var report InsightReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return InsightReport{}, false, fmt.Errorf("decode cached insights: %w", err)
	}
	return report, true, nil
}

func (c *redisInsightCache) Set(ctx context.Context, report InsightReport) error {
	if strings.TrimSpace(report.UserID) == "" {
		return nil
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	keys := []string{c.valueKey(report.UserID, report.LatestSample), c.indexKey(report.UserID)}
	return c.client.Eval(ctx, redisInsightSetScript, keys, string(payload), c.ttl.Milliseconds()).Err()
}

func (c *redisInsightCache) Invalidate(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Eval(ctx, redisInsightInvalidateScript, []string{c.indexKey(userID)}).Err()
}
