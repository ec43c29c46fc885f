package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prepdeck/appcore/casing"
	"github.com/prepdeck/appcore/observe"
	"github.com/prepdeck/appcore/session"
)

// Config configures the trusted gateway client.
type Config struct {
	// BaseURL is the fixed API origin all endpoint paths are resolved
	// against.
	BaseURL string

	// AllowedHosts is the trust policy allowlist. When empty, the host
	// of BaseURL should be supplied explicitly by the caller.
	AllowedHosts []string

	// ShortTimeout applies to ordinary endpoints.
	// Default: 30 seconds
	ShortTimeout time.Duration

	// LongTimeout applies to endpoints matching LongTimeoutPrefixes.
	// Default: 7 minutes
	LongTimeout time.Duration

	// LongTimeoutPrefixes designates long-running endpoints (generation
	// backed by AI models) that get LongTimeout instead of ShortTimeout.
	// Default: ["/ai/"]
	LongTimeoutPrefixes []string

	// RateLimit configures the per-endpoint admission window.
	RateLimit RateLimiterConfig

	// UserIDHeader carries the caller's user id on every request.
	// Default: "X-User-ID"
	UserIDHeader string
}

// Result is the uniform envelope every executed call is normalized into.
// Callers branch on Success rather than unwrapping errors; the Kind
// field distinguishes failure classes for telemetry.
type Result struct {
	Success bool
	Data    any
	Error   string
	Kind    FailureKind
	Status  int
}

// Client executes outbound calls against the trusted API origin. It
// composes the trust policy, the rate limiter, per-tier timeouts, and
// the wire naming translation into a single entry point.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Idempotence: not assumed; each call is independent. There are no
//     retries, circuit breaking, or request deduplication.
type Client struct {
	config  Config
	policy  *TrustPolicy
	limiter *RateLimiter
	sess    session.Provider
	http    *http.Client
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTrustPolicy replaces the trust policy built from Config.AllowedHosts.
func WithTrustPolicy(p *TrustPolicy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithRateLimiter replaces the rate limiter built from Config.RateLimit.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = rl
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l observe.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics attaches call metrics.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer attaches a tracer; every executed call gets a span.
func WithTracer(t observe.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// NewClient creates a gateway client for the given origin and session.
func NewClient(config Config, sess session.Provider, opts ...Option) *Client {
	// Apply defaults
	if config.ShortTimeout <= 0 {
		config.ShortTimeout = 30 * time.Second
	}
	if config.LongTimeout <= 0 {
		config.LongTimeout = 420 * time.Second
	}
	if config.LongTimeoutPrefixes == nil {
		config.LongTimeoutPrefixes = []string{"/ai/"}
	}
	if config.UserIDHeader == "" {
		config.UserIDHeader = "X-User-ID"
	}

	c := &Client{
		config:  config,
		policy:  NewTrustPolicy(config.AllowedHosts),
		limiter: NewRateLimiter(config.RateLimit),
		sess:    sess,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = observe.NopLogger()
	}
	if c.metrics == nil {
		c.metrics = observe.NopMetrics()
	}
	if c.tracer == nil {
		c.tracer = observe.NopTracer()
	}
	return c
}

// Policy returns the client's trust policy for runtime reconfiguration.
func (c *Client) Policy() *TrustPolicy {
	return c.policy
}

// RetryAfter returns how long until the endpoint's rate limit window
// admits another call.
func (c *Client) RetryAfter(endpointPath string) time.Duration {
	return c.limiter.TimeUntilReset(endpointPath)
}

// Execute performs one outbound call. Pre-flight rejections (trust
// policy, rate limit) are returned as errors before any network I/O;
// everything after the request is issued is normalized into the Result
// envelope.
func (c *Client) Execute(ctx context.Context, method, endpointPath string, opts ...RequestOption) (Result, error) {
	ro := buildRequestOptions(opts)
	targetURL := c.config.BaseURL + endpointPath

	if !c.policy.IsTrusted(targetURL) {
		c.logger.Warn(ctx, "blocked untrusted endpoint", observe.Field{Key: "url", Value: targetURL})
		return Result{}, fmt.Errorf("%w: %s", ErrUntrustedHost, targetURL)
	}

	if !ro.skipRateLimit && !c.limiter.Allow(endpointPath) {
		c.logger.Warn(ctx, "rate limit exceeded",
			observe.Field{Key: "path", Value: endpointPath},
			observe.Field{Key: "retry_after_ms", Value: c.limiter.TimeUntilReset(endpointPath).Milliseconds()},
		)
		return Result{}, fmt.Errorf("%w: %s", ErrRateLimited, endpointPath)
	}

	meta := observe.CallMeta{Method: method, Path: endpointPath}
	ctx, span := c.tracer.StartSpan(ctx, meta)
	start := time.Now()

	res := c.execute(ctx, method, targetURL, endpointPath, ro)

	duration := time.Since(start)
	var callErr error
	if !res.Success {
		callErr = errors.New(res.Error)
	}
	c.tracer.EndSpan(span, callErr)
	c.metrics.RecordCall(ctx, meta, duration, res.Status, res.Kind.String())

	if res.Success {
		c.logger.Debug(ctx, "gateway call completed", callFields(meta, duration, res)...)
	} else {
		c.logger.Warn(ctx, "gateway call failed", callFields(meta, duration, res)...)
	}
	return res, nil
}

// execute runs the armed request and normalizes the outcome.
func (c *Client) execute(ctx context.Context, method, targetURL, endpointPath string, ro requestOptions) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeoutFor(endpointPath))
	defer cancel()

	req, err := c.buildRequest(ctx, method, targetURL, ro)
	if err != nil {
		return Result{Error: err.Error(), Kind: FailureTransport}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Error: TimeoutMessage, Kind: FailureTimeout}
		}
		// Propagate the transport error verbatim; callers depend on the
		// distinction for telemetry.
		return Result{Error: err.Error(), Kind: FailureTransport}
	}
	defer resp.Body.Close()

	return normalize(resp)
}

// buildRequest assembles the outbound request: body encoding, wire
// naming translation, and header injection.
func (c *Client) buildRequest(ctx context.Context, method, targetURL string, ro requestOptions) (*http.Request, error) {
	var bodyReader io.Reader
	contentType := ""

	switch {
	case ro.rawBody != nil:
		// Opaque body (multipart form): pass through untouched. The
		// caller's writer owns the content type and boundary.
		bodyReader = ro.rawBody
		contentType = ro.rawContentType
	case ro.body != nil:
		encoded, err := json.Marshal(casing.ToSnake(ro.body))
		if err != nil {
			return nil, fmt.Errorf("gateway: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}

	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// The identity header is set last: caller headers never override it.
	if userID := c.sess.UserID(); userID != "" {
		req.Header.Set(c.config.UserIDHeader, userID)
	}
	return req, nil
}

// timeoutFor selects the timeout tier for an endpoint path.
func (c *Client) timeoutFor(endpointPath string) time.Duration {
	for _, prefix := range c.config.LongTimeoutPrefixes {
		if strings.HasPrefix(endpointPath, prefix) {
			return c.config.LongTimeout
		}
	}
	return c.config.ShortTimeout
}

// normalize parses the response and folds it into the uniform envelope.
// Keys are translated from the wire convention back to the internal one.
func normalize(resp *http.Response) Result {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Error: err.Error(), Kind: FailureTransport, Status: resp.StatusCode}
	}

	var parsed any
	if len(bytes.TrimSpace(raw)) > 0 {
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil {
			parsed = casing.ToCamel(parsed)
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Success: true, Data: parsed, Status: resp.StatusCode}
	}
	return Result{
		Error:  errorMessage(parsed, resp.StatusCode),
		Kind:   FailureServer,
		Status: resp.StatusCode,
	}
}

// errorMessage extracts the server error message in priority order:
// body "error", then "detail", then a synthesized status message.
func errorMessage(parsed any, status int) string {
	if doc, ok := parsed.(map[string]any); ok {
		if msg, ok := doc["error"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := doc["detail"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Server error: %d", status)
}

func callFields(meta observe.CallMeta, duration time.Duration, res Result) []observe.Field {
	fields := []observe.Field{
		{Key: "method", Value: meta.Method},
		{Key: "path", Value: meta.Path},
		{Key: "status", Value: res.Status},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if res.Error != "" {
		fields = append(fields,
			observe.Field{Key: "error", Value: res.Error},
			observe.Field{Key: "kind", Value: res.Kind.String()},
		)
	}
	return fields
}
