package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"bybitconn/internal/circuitbreaker"
	httpclient "bybitconn/internal/http"
	"bybitconn/internal/ratelimit"
	"bybitconn/pkg/core"
)

// State represents the lifecycle state of a Session.
type State int

const (
	// StateActive indicates a session that is ready to process requests.
	StateActive State = iota
	// StateClosed indicates a session that has been shut down and can no longer be used.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	if s == StateClosed {
		return "CLOSED"
	}
	return "ACTIVE"
}

// Session holds everything a REST call needs between calls: base URL, credentials,
// signing protocol, HTTP transport and the optional limiter and circuit breaker.
// Sessions are safe for concurrent use.
type Session struct {
	mu             sync.RWMutex
	config         *core.Config
	protocol       core.Protocol
	credentials    *core.Credentials
	client         *httpclient.Client
	rateLimiter    *ratelimit.Limiter
	circuitBreaker *circuitbreaker.Breaker
	logger         zerolog.Logger
	state          State
	createdAt      time.Time
	lastUsed       time.Time
	now            func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock overrides the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a Session with the provided configuration and signing protocol.
// The configuration is validated before the session is created.
func New(config *core.Config, protocol core.Protocol, opts ...Option) (*Session, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if protocol == nil {
		return nil, fmt.Errorf("protocol is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	s := &Session{
		config:      config,
		protocol:    protocol,
		credentials: config.Credentials,
		logger:      zerolog.Nop(),
		state:       StateActive,
		createdAt:   time.Now(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastUsed = s.createdAt

	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			s.logger = s.logger.Level(level)
		}
	}

	headers := map[string]string{}
	if config.Referer != "" {
		headers["Referer"] = config.Referer
	}
	client, err := httpclient.NewClient(&httpclient.Config{
		BaseURL:     config.BaseURL(),
		Timeout:     config.Timeout,
		Headers:     headers,
		LogRequests: config.LogRequests,
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	s.client = client

	if config.RateLimitEnabled {
		s.rateLimiter = ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
		if config.RateLimitPrivateRequests > 0 {
			s.rateLimiter.SetClassLimit(ratelimit.ClassPrivate, config.RateLimitPrivateRequests, config.RateLimitPeriod)
		}
	}
	if config.CircuitBreakerEnabled {
		s.circuitBreaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	return s, nil
}

// Do executes an operation against the exchange and returns the decoded envelope.
// Signed operations are signed with the session credentials; the limiter and the
// circuit breaker are consulted when enabled. Nothing is retried.
func (s *Session) Do(ctx context.Context, op core.Operation, params core.Params) (*core.Response, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, core.ErrClientClosed
	}
	s.lastUsed = s.now()
	creds := s.credentials
	s.mu.Unlock()

	req, err := s.protocol.BuildRequest(op, params)
	if err != nil {
		return nil, err
	}

	class := ratelimit.ClassPublic
	if req.RequireAuth {
		class = ratelimit.ClassPrivate
		if !creds.Valid() {
			return nil, core.NewError(core.ErrorTypeAuthentication, core.ErrNoCredentials.Error()).
				Wrap(core.ErrNoCredentials).
				WithRequest(req.String())
		}
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx, class); err != nil {
			return nil, core.NewError(core.ErrorTypeTimeout, "rate limit wait").
				Wrap(err).
				WithRequest(req.String())
		}
	}

	if s.circuitBreaker != nil {
		if err := s.circuitBreaker.Allow(); err != nil {
			return nil, core.NewError(core.ErrorTypeConnectivity, err.Error()).
				Wrap(err).
				WithRequest(req.String())
		}
	}

	// The timestamp is taken after any throttling wait.
	if req.RequireAuth {
		if err := s.protocol.SignRequest(req, creds, s.config.RecvWindow, s.now()); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := s.send(ctx, req)
	if s.circuitBreaker != nil {
		s.circuitBreaker.Record(err)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.protocol.ParseResponse(req, resp.StatusCode(), resp.Bytes())
	if err != nil {
		if s.ignored(err) {
			s.logger.Debug().
				Str("operation", op.String()).
				Int("ret_code", result.RetCode).
				Msg("ignored error code")
			return result, nil
		}
		return result, err
	}

	return result, nil
}

func (s *Session) send(ctx context.Context, req *core.Request) (*resty.Response, error) {
	opts := make([]httpclient.RequestOption, 0, 2)
	if len(req.Headers) > 0 {
		opts = append(opts, httpclient.WithHeaders(req.Headers))
	}
	if req.Method == resty.MethodGet || req.ParamsInQuery {
		opts = append(opts, httpclient.WithQueryParams(req.Params.Query()))
	} else {
		opts = append(opts, httpclient.WithJSONBody(req.Params))
	}

	resp, err := s.client.Do(ctx, req.Method, req.Path, opts...)
	if err != nil {
		if errors.Is(err, core.ErrClientClosed) {
			return nil, err
		}
		return nil, core.NewError(classify(err), "http request").
			Wrap(err).
			WithRequest(req.String())
	}
	return resp, nil
}

func classify(err error) core.ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ErrorTypeTimeout
	}
	return core.ErrorTypeConnectivity
}

func (s *Session) ignored(err error) bool {
	if len(s.config.IgnoreCodes) == 0 {
		return false
	}
	var e *core.Error
	if !errors.As(err, &e) || e.Code == 0 {
		return false
	}
	return slices.Contains(s.config.IgnoreCodes, e.Code)
}

// Close shuts down the session and releases its HTTP transport.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	return s.client.Close()
}

// State returns the current lifecycle state of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Protocol returns the signing protocol assigned to the session.
func (s *Session) Protocol() core.Protocol {
	return s.protocol
}

// Config returns the configuration used to create the session.
func (s *Session) Config() *core.Config {
	return s.config
}

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger {
	return s.logger
}

// CreatedAt returns the timestamp when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastUsed returns the timestamp of the last request executed by the session.
func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// SetCredentials updates the API credentials used for authenticated requests.
func (s *Session) SetCredentials(creds *core.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = creds
}

// Credentials returns the credentials used for signed requests, possibly nil.
func (s *Session) Credentials() *core.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials
}

// RateLimitMetrics returns limiter statistics, or false when throttling is disabled.
func (s *Session) RateLimitMetrics() (ratelimit.MetricsSnapshot, bool) {
	if s.rateLimiter == nil {
		return ratelimit.MetricsSnapshot{}, false
	}
	return s.rateLimiter.Metrics(), true
}

// CircuitState returns the breaker state, or false when the breaker is disabled.
func (s *Session) CircuitState() (circuitbreaker.State, bool) {
	if s.circuitBreaker == nil {
		return circuitbreaker.StateClosed, false
	}
	return s.circuitBreaker.State(), true
}

// CircuitMetrics returns breaker statistics, or false when the breaker is disabled.
func (s *Session) CircuitMetrics() (circuitbreaker.MetricsSnapshot, bool) {
	if s.circuitBreaker == nil {
		return circuitbreaker.MetricsSnapshot{}, false
	}
	return s.circuitBreaker.Metrics(), true
}

// ResetCircuit closes an open breaker so calls are sent again before its timeout elapses.
func (s *Session) ResetCircuit() {
	if s.circuitBreaker != nil {
		s.circuitBreaker.Reset()
	}
}
