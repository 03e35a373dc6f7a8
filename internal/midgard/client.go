package midgard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"revenueScope/internal/model"
	"revenueScope/internal/observability"
)

const (
	DefaultBaseURL  = "https://midgard.ninerealms.com"
	DefaultClientID = "revenuescope"

	endpointEarnings = "earnings"
	endpointReserve  = "reserve"
	endpointPools    = "pools"
)

// Config controls the Midgard client.
type Config struct {
	BaseURL    string
	ClientID   string
	Pacing     time.Duration
	Timeout    time.Duration
	MaxRetries uint
	RetryDelay time.Duration
	CacheTTL   time.Duration
	// FetchTimeout bounds one shared fetch, retries and pacing waits included.
	// Zero derives it from Timeout, Pacing and the retry settings.
	FetchTimeout time.Duration
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("midgard %s: status %d: %s", e.URL, e.Code, e.Body)
}

// Client fetches history and pool data from a Midgard API.
// Requests for the same URL share one fetch, and outbound requests are spaced by Pacing.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	memo       *memo
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = fetchBudget(cfg)
	}

	limit := rate.Inf
	if cfg.Pacing > 0 {
		limit = rate.Every(cfg.Pacing)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		memo:       newMemo(cfg.CacheTTL),
		logger:     logger,
	}
}

// Earnings returns the daily earnings buckets between from and to.
func (c *Client) Earnings(ctx context.Context, from, to time.Time) ([]model.EarningsInterval, error) {
	var resp earningsResponse
	if err := c.getJSON(ctx, endpointEarnings, c.historyURL("earnings", from, to), &resp); err != nil {
		return nil, err
	}
	return resp.toModel()
}

// Reserve returns the daily reserve buckets between from and to.
func (c *Client) Reserve(ctx context.Context, from, to time.Time) ([]model.ReserveInterval, error) {
	var resp reserveResponse
	if err := c.getJSON(ctx, endpointReserve, c.historyURL("reserve", from, to), &resp); err != nil {
		return nil, err
	}
	return resp.toModel()
}

// Pools returns the current depth of every pool.
func (c *Client) Pools(ctx context.Context) ([]model.PoolDepth, error) {
	var resp []poolDetail
	if err := c.getJSON(ctx, endpointPools, c.cfg.BaseURL+"/v2/pools?period=24h", &resp); err != nil {
		return nil, err
	}
	return poolsToModel(resp)
}

// FetchDataset fetches earnings, reserve and pools, in that order.
func (c *Client) FetchDataset(ctx context.Context, from, to time.Time) (model.Dataset, error) {
	earnings, err := c.Earnings(ctx, from, to)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("fetch earnings: %w", err)
	}
	reserve, err := c.Reserve(ctx, from, to)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("fetch reserve: %w", err)
	}
	depths, err := c.Pools(ctx)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("fetch pools: %w", err)
	}
	return model.Dataset{Earnings: earnings, Reserve: reserve, Depths: depths}, nil
}

func (c *Client) historyURL(kind string, from, to time.Time) string {
	q := url.Values{}
	q.Set("interval", "day")
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))
	return c.cfg.BaseURL + "/v2/history/" + kind + "?" + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out interface{}) error {
	body, shared, err := c.memo.Do(ctx, rawURL, func() ([]byte, error) {
		// Shared by every caller of rawURL; only the budget may end it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.FetchTimeout)
		defer cancel()
		return c.fetch(fetchCtx, endpoint, rawURL)
	})
	if shared {
		observability.MemoHits.WithLabelValues(endpoint).Inc()
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	start := time.Now()
	defer func() {
		observability.FetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(err)
			}
			return c.do(ctx, rawURL)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetries+1),
		retry.Delay(c.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("midgard request failed, retrying",
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		observability.FetchTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	observability.FetchTotal.WithLabelValues(endpoint, "ok").Inc()
	c.logger.Debug("midgard fetch", zap.String("endpoint", endpoint), zap.Duration("took", time.Since(start)))
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-client-id", c.cfg.ClientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL, Body: truncate(string(body), 256)}
	}
	return body, nil
}

// fetchBudget covers every attempt with its pacing wait plus the backoff between attempts.
func fetchBudget(cfg Config) time.Duration {
	attempts := time.Duration(cfg.MaxRetries + 1)
	budget := attempts * (cfg.Timeout + cfg.Pacing)
	delay := cfg.RetryDelay
	for i := uint(0); i < cfg.MaxRetries && i < 16; i++ {
		budget += delay
		delay *= 2
	}
	return budget
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
