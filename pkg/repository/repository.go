// Package repository is the authenticated HTTP layer client applications
// talk to a JSON backend through. It injects bearer tokens, refreshes them
// once on 401, maps response statuses to the httperr taxonomy, and can
// optionally emit metrics, traces and debug logs per request.
package repository

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/milan604/rest-lab/pkg/config"
	"github.com/milan604/rest-lab/pkg/logger"
	"github.com/milan604/rest-lab/pkg/session"
)

// DefaultTimeout bounds each individual network attempt when the
// configuration does not say otherwise.
const DefaultTimeout = 30 * time.Second

// Doer is the transport contract. *http.Client satisfies it; tests and
// embedding applications may supply anything else.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the construction-time settings.
type Config struct {
	// BaseURL is prepended verbatim to every handle: no separator is
	// inserted or stripped, so it normally ends with "/".
	BaseURL string `validate:"required,url"`
	// Timeout bounds each network attempt independently (original request,
	// 401 retry and refresh request each get their own deadline). Zero means
	// DefaultTimeout.
	Timeout time.Duration `validate:"min=0"`
	// EnableLogs turns on debug logging of request/response detail. Pure
	// observability; it never changes control flow.
	EnableLogs bool
}

var validate = validator.New()

// Repository executes authenticated requests against a single backend.
//
// Each public method is an independent sequential operation; the underlying
// client may be shared across goroutines. Concurrent calls that each receive
// a 401 will each refresh independently — the session serializes the
// credential writes, the refreshes themselves are not coalesced.
type Repository struct {
	client  Doer
	sess    *session.Session
	baseURL string
	timeout time.Duration

	log        logger.LogManager
	enableLogs bool

	metrics *metrics
	breaker *gobreaker.CircuitBreaker[*http.Response]
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// Option configures the repository.
type Option func(*Repository)

// WithHTTPClient sets the transport. Defaults to a plain *http.Client
// without its own timeout (attempts are bounded per request context).
func WithHTTPClient(d Doer) Option {
	return func(r *Repository) { r.client = d }
}

// WithLogger sets the logger used for debug request/response logging and
// refresh diagnostics.
func WithLogger(l logger.LogManager) Option {
	return func(r *Repository) { r.log = l }
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Repository) { r.metrics = newMetrics(reg) }
}

// WithBreaker wraps every network attempt in a circuit breaker. A tripped
// breaker surfaces as a network error.
func WithBreaker(st gobreaker.Settings) Option {
	return func(r *Repository) { r.breaker = gobreaker.NewCircuitBreaker[*http.Response](st) }
}

// WithRateLimit throttles outbound attempts client-side.
func WithRateLimit(rps float64, burst int) Option {
	return func(r *Repository) { r.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithTracer emits a client span per network attempt. The caller owns the
// tracer provider; without this option no spans are created.
func WithTracer(t trace.Tracer) Option {
	return func(r *Repository) { r.tracer = t }
}

// New validates cfg and builds a repository bound to the given session.
func New(cfg Config, sess *session.Session, opts ...Option) (*Repository, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("repository config: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("repository config: session is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := &Repository{
		client:     &http.Client{},
		sess:       sess,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		enableLogs: cfg.EnableLogs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// FromConfig builds a repository from a config.Config instance using the
// keys api.base_url, api.timeout and api.enable_logs.
func FromConfig(cfg *config.Config, sess *session.Session, opts ...Option) (*Repository, error) {
	if err := cfg.ValidateRequired("api.base_url"); err != nil {
		return nil, fmt.Errorf("repository config: %w", err)
	}
	return New(Config{
		BaseURL:    cfg.GetString("api.base_url"),
		Timeout:    cfg.GetDurationD("api.timeout", DefaultTimeout),
		EnableLogs: cfg.GetBoolD("api.enable_logs", false),
	}, sess, opts...)
}
