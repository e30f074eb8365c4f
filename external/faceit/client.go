package faceit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/metrics"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/resilience"
	"github.com/riskibarqy/faceit-hub-bot/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL  = "https://open.faceit.com/data/v4"
	defaultTimeout  = 20 * time.Second
	maxResponseBody = 4 << 20
)

var errFaceitTransient = crerr.New("faceit transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.FetchMetrics
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is a read-only FACEIT Data API client. Every call carries the bearer
// API key and is made exactly once.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	metrics        *metrics.FetchMetrics
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

var _ usecase.HubResourceFetcher = (*Client)(nil)

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
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	client := &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		metrics:        cfg.Metrics,
		circuitEnabled: breakerCfg.Enabled,
	}
	client.breaker = resilience.NewCircuitBreaker(breakerCfg, resilience.WithStateListener(client.onCircuitStateChange))
	client.metrics.SetCircuitState(client.CircuitState())
	return client
}

// Fetch issues one authenticated GET for endpoint (relative to the base URL).
// It never returns an error directly; failures are reported in the outcome.
func (c *Client) Fetch(ctx context.Context, endpoint string, query map[string]string) usecase.FetchOutcome {
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return usecase.FetchFailure(endpoint, usecase.FailureInvalidRequest, crerr.New("endpoint path is required"))
	}

	if err := ctx.Err(); err != nil {
		return usecase.FetchFailure(endpoint, usecase.FailureTransport, err)
	}

	started := time.Now()
	c.logger.DebugContext(ctx, "fetching faceit resource", "endpoint", endpoint)

	raw, kind, err := c.get(ctx, endpoint, query)
	if err != nil {
		c.metrics.Observe(endpoint, string(kind), time.Since(started))
		c.logger.WarnContext(ctx, "could not fetch faceit resource",
			"endpoint", endpoint,
			"failure", string(kind),
			"error", err,
		)
		return usecase.FetchFailure(endpoint, kind, err)
	}

	c.metrics.Observe(endpoint, "success", time.Since(started))
	return usecase.FetchSuccess(endpoint, raw)
}

// CircuitState reports the breaker state, or "disabled".
func (c *Client) CircuitState() string {
	if !c.circuitEnabled {
		return "disabled"
	}
	return string(c.breaker.State())
}

func (c *Client) onCircuitStateChange(from, to resilience.CircuitState) {
	c.logger.Warn("faceit circuit state changed", "from", string(from), "to", string(to))
	c.metrics.SetCircuitState(string(to))
}

type response struct {
	raw  []byte
	kind usecase.FailureKind
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string) ([]byte, usecase.FailureKind, error) {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + "/" + endpoint
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The shared request is detached from any single caller; each caller
	// stops waiting on its own context instead.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fullURL, func() (any, error) {
		var resp response
		call := func() error {
			raw, kind, reqErr := c.executeRequest(shared, fullURL)
			resp = response{raw: raw, kind: kind}
			return reqErr
		}

		if !c.circuitEnabled {
			err := call()
			return resp, err
		}
		err := c.breaker.Execute(call, isFaceitCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(shared, "faceit circuit breaker rejected request", "state", c.breaker.State())
			return response{kind: usecase.FailureUnavailable}, err
		}
		return resp, err
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return nil, usecase.FailureTransport, fmt.Errorf("wait for provider response: %w", ctx.Err())
	case result = <-ch:
	}

	resp, _ := result.Val.(response)
	if result.Err != nil {
		if resp.kind == "" {
			resp.kind = usecase.FailureTransport
		}
		return nil, resp.kind, result.Err
	}
	return resp.raw, "", nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, usecase.FailureKind, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, usecase.FailureInvalidRequest, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, usecase.FailureTransport, fmt.Errorf("send request: %w", ctxErr)
		}
		return nil, usecase.FailureTransport, fmt.Errorf("%w: send request: %s", errFaceitTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, usecase.FailureTransport, fmt.Errorf("%w: read response body: %v", errFaceitTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, usecase.FailureStatus, fmt.Errorf("%w: provider status=%d body=%s", errFaceitTransient, resp.StatusCode, abbreviateBody(raw))
		}
		return nil, usecase.FailureStatus, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	if !sonic.Valid(raw) {
		return nil, usecase.FailureMalformed, fmt.Errorf("decode provider payload: invalid json body=%s", abbreviateBody(raw))
	}

	return raw, "", nil
}
