package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/pkg/circuitbreaker"
	"github.com/jwalitptl/passcheck-api/pkg/metrics"
)

const (
	prefixLen = 5

	// DefaultEndpoint is the public pwned-passwords range API.
	DefaultEndpoint = "https://api.pwnedpasswords.com/range"

	// DefaultTimeout bounds a single outbound range fetch.
	DefaultTimeout = 2 * time.Second

	// DefaultTTL is how long a fetched range stays cached.
	DefaultTTL = 24 * time.Hour
)

// Config holds checker settings.
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Checker performs k-anonymity breach lookups: only the first 5 hex
// characters of the password's SHA-1 digest ever leave the process. All
// failures degrade to "not breached" so a breach-corpus outage can never
// break password evaluation.
type Checker struct {
	endpoint string
	client   *http.Client
	cache    Cache
	cb       *circuitbreaker.CircuitBreaker
	metrics  *metrics.Metrics
}

// NewChecker builds a Checker on top of cache. m may be nil.
func NewChecker(cfg Config, cache Cache, m *metrics.Metrics) *Checker {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	cb := circuitbreaker.New(circuitbreaker.Settings{
		Name:        "breach-range-api",
		MaxFailures: 5,
		Timeout:     30 * time.Second,
	})

	return &Checker{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		cb:       cb,
		metrics:  m,
	}
}

// Check reports whether password appears in the breach corpus and how many
// times. It never returns an error: network failures, timeouts, non-2xx
// responses and unparsable bodies all yield a zero BreachResult.
func (c *Checker) Check(ctx context.Context, password string) model.BreachResult {
	digest := fmt.Sprintf("%X", sha1.Sum([]byte(password)))
	prefix, suffix := digest[:prefixLen], digest[prefixLen:]

	entry, ok := c.cache.Get(ctx, prefix)
	if ok {
		c.metrics.RecordCacheHit()
		return c.resolve(entry, suffix)
	}
	c.metrics.RecordCacheMiss()

	var matches map[string]int
	err := c.cb.Execute(func() error {
		var fetchErr error
		matches, fetchErr = c.fetchRange(ctx, prefix)
		return fetchErr
	})
	if err != nil {
		log.Warn().Err(err).Msg("breach lookup failed, treating password as not breached")
		c.metrics.RecordLookup(metrics.OutcomeError)
		return model.BreachResult{}
	}

	entry = Entry{Prefix: prefix, Matches: matches, FetchedAt: time.Now()}
	if err := c.cache.Put(ctx, prefix, entry); err != nil {
		// Caching is best-effort: the result is still usable.
		log.Warn().Err(err).Msg("failed to cache breach range")
	}

	return c.resolve(entry, suffix)
}

func (c *Checker) resolve(entry Entry, suffix string) model.BreachResult {
	count, ok := entry.Matches[suffix]
	if !ok {
		c.metrics.RecordLookup(metrics.OutcomeClean)
		return model.BreachResult{}
	}
	c.metrics.RecordLookup(metrics.OutcomeBreached)
	return model.BreachResult{IsBreached: true, Count: count}
}

// fetchRange issues the single outbound request for prefix and parses the
// SUFFIX:COUNT response body. Lines that do not parse are skipped.
func (c *Checker) fetchRange(ctx context.Context, prefix string) (map[string]int, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+prefix, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build range request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("range request failed: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RecordFetchLatency(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("range request returned status %d", resp.StatusCode)
	}

	matches := make(map[string]int)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		suffix, countStr, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 0 {
			continue
		}
		matches[strings.ToUpper(strings.TrimSpace(suffix))] = count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read range response: %w", err)
	}

	return matches, nil
}
