package fpl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
	"github.com/riskibarqy/fpl-pulse/internal/platform/cache"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
	"github.com/riskibarqy/fpl-pulse/internal/platform/resilience"
	"github.com/riskibarqy/fpl-pulse/internal/usecase"
)

const (
	defaultBaseURL = "https://fpl-pulse.ciaranbrennan18.workers.dev"
	maxBodyBytes   = 32 << 20
)

// ErrNotReady is returned when the entry blob endpoint answers 202 because the
// season document is still being built.
var ErrNotReady = fmt.Errorf("%w: fpl entry is still building", usecase.ErrNotReady)

// ErrInvalidPayload marks a response that decoded but failed structural checks.
var ErrInvalidPayload = crerr.New("fpl payload failed validation")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	CacheTTL       time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the FPL proxy. Every GET goes through the circuit breaker,
// single-flight dedupe and Retry before the body is decoded and validated.
// Deduped requests outlive a cancelled caller while any other caller waits.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	retry          resilience.RetryPolicy
	logger         *logging.Logger
	metrics        *metrics.Manager
	validate       *validator.Validate
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]

	bootstrapCache *cache.Store[*upstream.Bootstrap]
	elementsCache  *cache.Store[*upstream.SeasonElements]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	m := cfg.Metrics
	breaker := resilience.NewCircuitBreaker("fpl", breakerCfg, func(name string, from, to resilience.CircuitState) {
		m.SetBreakerState(name, string(to))
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		retry:          resilience.NormalizeRetryPolicy(cfg.Retry),
		logger:         logger.Named("fpl"),
		metrics:        m,
		validate:       validator.New(),
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		bootstrapCache: cache.NewStore[*upstream.Bootstrap](cfg.CacheTTL),
		elementsCache:  cache.NewStore[*upstream.SeasonElements](cfg.CacheTTL),
	}
}

func (c *Client) Bootstrap(ctx context.Context) (*upstream.Bootstrap, error) {
	return c.bootstrapCache.GetOrLoad(ctx, "bootstrap", func(ctx context.Context) (*upstream.Bootstrap, error) {
		var out upstream.Bootstrap
		if err := c.getJSON(ctx, "bootstrap", "/fpl/bootstrap", &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) LeagueStandings(ctx context.Context, leagueID int) (*upstream.LeagueStandings, error) {
	var out upstream.LeagueStandings
	if err := c.getJSON(ctx, "league_standings", "/fpl/league/"+strconv.Itoa(leagueID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntrySummary(ctx context.Context, entryID int) (*upstream.EntrySummary, error) {
	var out upstream.EntrySummary
	if err := c.getJSON(ctx, "entry_summary", fmt.Sprintf("/fpl/entry/%d/summary", entryID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntryHistory(ctx context.Context, entryID int) (*upstream.EntryHistory, error) {
	var out upstream.EntryHistory
	if err := c.getJSON(ctx, "entry_history", "/fpl/entry/"+strconv.Itoa(entryID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntryPicks(ctx context.Context, entryID, round int) (*upstream.EntryPicks, error) {
	var out upstream.EntryPicks
	if err := c.getJSON(ctx, "entry_picks", fmt.Sprintf("/fpl/entry/%d/event/%d/picks", entryID, round), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntryTransfers(ctx context.Context, entryID int) ([]upstream.Transfer, error) {
	var out []upstream.Transfer
	if err := c.getJSON(ctx, "entry_transfers", fmt.Sprintf("/fpl/entry/%d/transfers", entryID), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []upstream.Transfer{}
	}
	return out, nil
}

func (c *Client) LiveRound(ctx context.Context, round int) (*upstream.LiveRound, error) {
	var out upstream.LiveRound
	if err := c.getJSON(ctx, "live_round", "/fpl/live/"+strconv.Itoa(round), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ElementSummary(ctx context.Context, elementID int) (*upstream.ElementSummary, error) {
	var out upstream.ElementSummary
	if err := c.getJSON(ctx, "element_summary", "/fpl/element-summary/"+strconv.Itoa(elementID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EntryBlob returns ErrNotReady while the upstream is still assembling the
// season document.
func (c *Client) EntryBlob(ctx context.Context, entryID int) (*upstream.EntryBlob, error) {
	var out upstream.EntryBlob
	if err := c.getJSON(ctx, "entry_blob", "/v1/entry/"+strconv.Itoa(entryID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntriesPack(ctx context.Context, leagueID int) (*upstream.EntriesPack, error) {
	var out upstream.EntriesPack
	if err := c.getJSON(ctx, "entries_pack", fmt.Sprintf("/v1/league/%d/entries-pack", leagueID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SeasonElements(ctx context.Context) (*upstream.SeasonElements, error) {
	return c.elementsCache.GetOrLoad(ctx, "season_elements", func(ctx context.Context) (*upstream.SeasonElements, error) {
		var out upstream.SeasonElements
		if err := c.getJSON(ctx, "season_elements", "/v1/season/elements", &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, target any) error {
	raw, err := c.doRequest(ctx, endpoint, path)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s payload", endpoint)
	}
	if err := c.validatePayload(ctx, target); err != nil {
		return crerr.WithSecondaryError(crerr.Wrapf(ErrInvalidPayload, "%s", endpoint), err)
	}
	return nil
}

func (c *Client) validatePayload(ctx context.Context, target any) error {
	if _, isSlice := target.(*[]upstream.Transfer); isSlice {
		return nil
	}
	return c.validate.StructCtx(ctx, target)
}

func (c *Client) doRequest(ctx context.Context, endpoint, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
	}

	fullURL := c.baseURL + path
	raw, err, _ := c.flight.DoContext(ctx, fullURL, func(ctx context.Context) ([]byte, error) {
		body, reqErr := c.fetchWithRetry(ctx, endpoint, fullURL)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, resilience.IsTransient)
		}
		return body, reqErr
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	policy := c.retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.metrics.IncUpstreamRetry(endpoint)
		c.logger.WarnContext(ctx, "fpl request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	raw, err := resilience.Retry(ctx, policy, func(ctx context.Context, _ int) ([]byte, error) {
		return c.executeRequest(ctx, endpoint, fullURL)
	})
	if err != nil && stderrors.Is(err, resilience.ErrRetriesExhausted) {
		c.metrics.IncUpstreamExhausted(endpoint)
		c.logger.WarnContext(ctx, "fpl request failed", "endpoint", endpoint, "url", fullURL, "error", err)
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, endpoint, fullURL string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveUpstreamAttempt(endpoint, attemptOutcome(ctx, err), time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: send request: %v", resilience.ErrTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", resilience.ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusAccepted:
		var state upstream.EntryBuildState
		_ = sonic.Unmarshal(raw, &state)
		return nil, crerr.Wrapf(ErrNotReady, "status=%s last_gw_processed=%d", state.Status, state.LastGWProcessed)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, endpoint)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: upstream status=%d body=%s", resilience.ErrTransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, crerr.Newf("upstream status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func attemptOutcome(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case ctx.Err() != nil:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
