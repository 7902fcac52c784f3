package bybit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bybitconn/pkg/core"
	"bybitconn/pkg/session"
)

// HTTP is the REST client for one contract type. It is safe for concurrent use.
type HTTP struct {
	session  *session.Session
	protocol *Protocol
	config   *core.Config
	logger   zerolog.Logger
}

type options struct {
	logger zerolog.Logger
	clock  func() time.Time
}

// Option configures an HTTP or WebSocket client.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the clock used for signing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: zerolog.Nop(), clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewHTTP creates a REST client. A nil config means mainnet defaults with no contract type,
// which leaves only the account asset endpoints available.
func NewHTTP(config *core.Config, opts ...Option) (*HTTP, error) {
	if config == nil {
		config = core.DefaultConfig(core.ContractNone)
	}
	o := applyOptions(opts)
	logger := o.logger.With().
		Str("component", "http").
		Str("contract", config.ContractType.String()).
		Logger()

	protocol := NewProtocol(config.ContractType)
	s, err := session.New(config, protocol,
		session.WithLogger(logger),
		session.WithClock(o.clock))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &HTTP{
		session:  s,
		protocol: protocol,
		config:   config,
		logger:   logger,
	}, nil
}

// Call sends one operation with params and returns the decoded envelope.
// Every named endpoint method is a thin wrapper around Call.
func (h *HTTP) Call(ctx context.Context, op core.Operation, params core.Params) (*core.Response, error) {
	resp, err := h.session.Do(ctx, op, params)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Str("operation", op.String()).
			Msg("call failed")
		return resp, err
	}
	return resp, nil
}

// Supports reports whether the configured contract type exposes op.
func (h *HTTP) Supports(op core.Operation) bool {
	return h.protocol.Supports(op)
}

// Session returns the underlying session.
func (h *HTTP) Session() *session.Session {
	return h.session
}

// Close releases the HTTP transport.
func (h *HTTP) Close() error {
	return h.session.Close()
}
