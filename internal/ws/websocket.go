package ws

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"bybitconn/pkg/core"
)

// Config holds configuration options for a websocket client.
type Config struct {
	// URL is the websocket server endpoint to connect to.
	URL string
	// ReconnectEnabled determines whether a dropped connection is dialed again.
	ReconnectEnabled bool
	// MaxReconnectAttempts bounds consecutive reconnect attempts after a drop.
	MaxReconnectAttempts int
	// ReconnectWait is the fixed pause before every reconnect attempt.
	ReconnectWait time.Duration
	// PingInterval is the duration between heartbeat frames.
	PingInterval time.Duration
	// PongWait is how long past a heartbeat the socket may stay silent before it is dropped.
	PongWait time.Duration
	// HandshakeTimeout bounds the websocket upgrade.
	HandshakeTimeout time.Duration
}

// Hooks connects the transport to the protocol layer above it.
type Hooks struct {
	// OnMessage receives every non-empty frame. It runs on the read loop.
	OnMessage func(data []byte)
	// OnConnect runs after every successful dial, before the connection counts as live.
	// Returning an error tears the socket down.
	OnConnect func(ctx context.Context) error
	// OnError receives drops and reconnect failures.
	OnError func(err error)
	// Ping builds the heartbeat frame. When nil a protocol ping frame is sent.
	Ping func() []byte
}

// Client manages a single websocket connection with heartbeat and bounded reconnection.
type Client struct {
	config  Config
	hooks   Hooks
	state   *State
	handler *eventHandler
	logger  zerolog.Logger

	mu            sync.RWMutex
	conn          *gws.Conn
	connectedChan chan struct{}
	heartbeatStop chan struct{}
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup

	live          atomic.Bool
	noReconnect   atomic.Bool
	reconnects    atomic.Int64
	reconnectBusy atomic.Bool
}

type eventHandler struct {
	client *Client
}

// NewClient creates a new websocket client with the given configuration.
// Default values are applied for any zero-valued configuration fields.
func NewClient(config Config, hooks Hooks) *Client {
	if config.MaxReconnectAttempts == 0 {
		config.MaxReconnectAttempts = 10
	}
	if config.ReconnectWait == 0 {
		config.ReconnectWait = time.Second
	}
	if config.PingInterval == 0 {
		config.PingInterval = 20 * time.Second
	}
	if config.PongWait == 0 {
		config.PongWait = config.PingInterval / 2
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = 10 * time.Second
	}

	client := &Client{
		config:        config,
		hooks:         hooks,
		state:         &State{},
		connectedChan: make(chan struct{}),
		stopChan:      make(chan struct{}),
		logger:        zerolog.Nop(),
	}
	client.state.Store(StateDisconnected)
	client.handler = &eventHandler{client: client}
	return client
}

// SetLogger configures the logger for the websocket client.
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

func (c *Client) readDeadline() time.Time {
	return time.Now().Add(c.config.PingInterval + c.config.PongWait)
}

func (h *eventHandler) OnOpen(socket *gws.Conn) {
	h.client.mu.Lock()
	select {
	case <-h.client.connectedChan:
	default:
		close(h.client.connectedChan)
	}
	h.client.mu.Unlock()

	h.client.logger.Info().
		Str("url", h.client.config.URL).
		Msg("websocket opened")

	_ = socket.SetDeadline(h.client.readDeadline())
}

func (h *eventHandler) OnClose(socket *gws.Conn, err error) {
	c := h.client

	c.mu.Lock()
	if c.conn != socket {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connectedChan = make(chan struct{})
	if c.heartbeatStop != nil {
		close(c.heartbeatStop)
		c.heartbeatStop = nil
	}
	c.mu.Unlock()

	wasLive := c.live.Swap(false)

	select {
	case <-c.stopChan:
		return
	default:
	}

	c.state.Store(StateDisconnected)
	c.logger.Warn().
		Err(err).
		Str("url", c.config.URL).
		Msg("websocket disconnected")

	if !wasLive {
		return
	}
	c.emitError(core.NewError(core.ErrorTypeConnectivity, "websocket connection dropped").Wrap(err))

	if c.config.ReconnectEnabled && !c.noReconnect.Load() {
		go c.reconnect()
	}
}

func (h *eventHandler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(h.client.readDeadline())
	_ = socket.WritePong(payload)
}

func (h *eventHandler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(h.client.readDeadline())
}

func (h *eventHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = socket.SetDeadline(h.client.readDeadline())

	data := message.Bytes()
	if len(data) == 0 || h.client.hooks.OnMessage == nil {
		return
	}

	h.client.logger.Trace().Str("data", string(data)).Msg("received websocket message")

	// message.Bytes is only valid until Close.
	h.client.hooks.OnMessage(append([]byte(nil), data...))
}

// Connect dials the configured URL, runs the connect hook and starts the heartbeat.
// It returns nil without dialing if the socket is already live.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(StateDisconnected, StateConnecting) {
		current := c.state.Load()
		if current == StateClosed {
			return core.ErrClientClosed
		}
		if current.Live() {
			return nil
		}
		return fmt.Errorf("invalid state for connect: %s", current)
	}

	socket, _, err := gws.NewClient(c.handler, &gws.ClientOption{
		Addr:             c.config.URL,
		HandshakeTimeout: c.config.HandshakeTimeout,
	})
	if err != nil {
		c.state.CompareAndSwap(StateConnecting, StateDisconnected)
		return core.NewError(core.ErrorTypeConnectivity, "connect websocket").Wrap(err)
	}

	c.mu.Lock()
	select {
	case <-c.stopChan:
		c.mu.Unlock()
		_ = socket.NetConn().Close()
		return core.ErrClientClosed
	default:
	}
	c.conn = socket
	connected := c.connectedChan
	c.mu.Unlock()

	c.wg.Go(func() {
		socket.ReadLoop()
	})

	select {
	case <-connected:
	case <-ctx.Done():
		c.drop(socket)
		return core.NewError(core.ErrorTypeTimeout, "connect websocket").Wrap(ctx.Err())
	case <-c.stopChan:
		_ = socket.NetConn().Close()
		return core.ErrClientClosed
	}

	if c.hooks.OnConnect != nil {
		if err := c.hooks.OnConnect(ctx); err != nil {
			c.drop(socket)
			return err
		}
	}

	c.live.Store(true)
	c.startHeartbeat()
	return nil
}

// drop closes a socket that never became live and returns to Disconnected.
func (c *Client) drop(socket *gws.Conn) {
	_ = socket.NetConn().Close()
	c.state.Store(StateDisconnected)
}

func (c *Client) startHeartbeat() {
	stop := make(chan struct{})
	c.mu.Lock()
	c.heartbeatStop = stop
	c.mu.Unlock()

	c.wg.Go(func() {
		ticker := time.NewTicker(c.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.sendHeartbeat(); err != nil {
					c.logger.Debug().Err(err).Msg("heartbeat failed")
				}
			case <-stop:
				return
			case <-c.stopChan:
				return
			}
		}
	})
}

func (c *Client) sendHeartbeat() error {
	if c.hooks.Ping == nil {
		return c.SendPing()
	}
	return c.WriteMessage(c.hooks.Ping())
}

// Close permanently shuts the client down. It is safe to call more than once.
func (c *Client) Close() error {
	c.stopOnce.Do(func() {
		c.state.Store(StateClosed)
		close(c.stopChan)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.NetConn().Close()
		}
		c.mu.Unlock()
	})

	c.wg.Wait()
	return nil
}

// State returns the current connection state of the websocket.
func (c *Client) State() ConnState {
	return c.state.Load()
}

// Advance moves the state forward, see State.Advance.
func (c *Client) Advance(next ConnState) bool {
	return c.state.Advance(next)
}

// IsConnected returns true if the websocket has an open socket.
func (c *Client) IsConnected() bool {
	return c.state.Load().Live()
}

// DisableReconnect stops any further reconnect attempts, e.g. after rejected credentials.
func (c *Client) DisableReconnect() {
	c.noReconnect.Store(true)
}

// Reconnects returns how many reconnect attempts have been made.
func (c *Client) Reconnects() int64 {
	return c.reconnects.Load()
}

// WriteMessage sends raw bytes as a text frame.
func (c *Client) WriteMessage(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || !c.state.Load().Live() {
		return core.ErrNotConnected
	}

	return c.conn.WriteMessage(gws.OpcodeText, data)
}

// SendJSON marshals the given value to JSON and sends it over the websocket.
func (c *Client) SendJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return c.WriteMessage(data)
}

// SendPing sends a protocol ping frame.
func (c *Client) SendPing() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || !c.state.Load().Live() {
		return core.ErrNotConnected
	}

	return c.conn.WritePing(nil)
}

func (c *Client) emitError(err error) {
	if c.hooks.OnError != nil {
		c.hooks.OnError(err)
	}
}

func (c *Client) reconnect() {
	if !c.reconnectBusy.CompareAndSwap(false, true) {
		return
	}
	defer c.reconnectBusy.Store(false)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxReconnectAttempts; attempt++ {
		select {
		case <-time.After(c.config.ReconnectWait):
		case <-c.stopChan:
			return
		}
		if c.noReconnect.Load() {
			return
		}

		c.reconnects.Add(1)
		c.logger.Info().
			Int("attempt", attempt).
			Str("url", c.config.URL).
			Msg("attempting reconnect")

		ctx, cancel := context.WithTimeout(context.Background(), c.config.HandshakeTimeout)
		err := c.Connect(ctx)
		cancel()
		if err == nil {
			c.logger.Info().Int("attempt", attempt).Msg("reconnected successfully")
			return
		}

		lastErr = err
		c.logger.Error().Err(err).Int("attempt", attempt).Msg("reconnect failed")
		if core.IsAuthenticationError(err) {
			c.DisableReconnect()
			c.emitError(err)
			return
		}
	}

	c.emitError(core.NewError(core.ErrorTypeConnectivity,
		fmt.Sprintf("gave up reconnecting after %d attempts", c.config.MaxReconnectAttempts)).Wrap(lastErr))
}
