package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"bybitconn/internal/ws"
	"bybitconn/pkg/core"
)

// WebSocket endpoints.
const (
	InverseWSURL       = "wss://stream.bybit.com/realtime"
	LinearPublicWSURL  = "wss://stream.bybit.com/realtime_public"
	LinearPrivateWSURL = "wss://stream.bybit.com/realtime_private"
	SpotPublicV1WSURL  = "wss://stream.bybit.com/spot/quote/ws/v1"
	SpotPublicV2WSURL  = "wss://stream.bybit.com/spot/quote/ws/v2"
	SpotPrivateWSURL   = "wss://stream.bybit.com/spot/ws"
)

var (
	spotPrivateTopics = []string{"outboundAccountInfo", "executionReport", "ticketInfo"}
	privateTopics     = []string{"position", "execution", "order", "stop_order", "wallet"}
	// Topics that are meaningless without a symbol or currency suffix.
	bareTopics = map[string]string{
		"trade":       "'trade' requires a ticker, e.g. 'trade.BTCUSD'",
		"insurance":   "'insurance' requires a currency, e.g. 'insurance.BTC'",
		"liquidation": "'liquidation' requires a ticker, e.g. 'liquidation.BTCUSD'",
	}
)

// WSConfig configures a WebSocket.
type WSConfig struct {
	Endpoint      string `validate:"required"`
	Subscriptions []Subscription
	Credentials   *core.Credentials

	// PingInterval is the heartbeat period.
	PingInterval time.Duration `validate:"min=0"`
	// RestartOnError reconnects, re-authenticates and resubscribes after a drop.
	RestartOnError       bool
	MaxReconnectAttempts int           `validate:"min=0"`
	ReconnectWait        time.Duration `validate:"min=0"`
	// AckTimeout bounds the wait for auth and subscribe acknowledgements while connecting.
	AckTimeout time.Duration `validate:"min=0"`

	BufferSize  int `validate:"min=0"`
	EventTopics []string
}

// DefaultWSConfig returns a config with a 20s heartbeat, restart on error with up to
// 10 attempts one second apart, and a 50 message window for event topics.
func DefaultWSConfig(endpoint string, subs ...Subscription) *WSConfig {
	return &WSConfig{
		Endpoint:             endpoint,
		Subscriptions:        subs,
		PingInterval:         20 * time.Second,
		RestartOnError:       true,
		MaxReconnectAttempts: 10,
		ReconnectWait:        time.Second,
		AckTimeout:           10 * time.Second,
		BufferSize:           DefaultBufferSize,
		EventTopics:          DefaultEventTopics,
	}
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *WSConfig) WithCredentials(apiKey, secretKey string) *WSConfig {
	c.Credentials = &core.Credentials{APIKey: apiKey, SecretKey: secretKey}
	return c
}

type ackEvent struct {
	op   string
	keys []string
	err  error
}

// WebSocket streams topics into a TopicBuffer and optional per-topic callbacks.
type WebSocket struct {
	config  *WSConfig
	kind    ConnKind
	version string
	client  *ws.Client
	buffer  *TopicBuffer
	logger  zerolog.Logger
	now     func() time.Time

	mu         sync.RWMutex
	active     []Subscription
	subscribed map[string]struct{}
	handlers   map[string]func(Message)
	onError    func(error)
	waiter     chan ackEvent
}

// NewWebSocket validates the subscriptions against the endpoint kind and prepares a client.
// Call Connect to dial.
func NewWebSocket(config *WSConfig, opts ...Option) (*WebSocket, error) {
	if config == nil {
		return nil, core.NewUsageError(core.ErrMissingParameter, "websocket config")
	}
	if err := validate.Struct(config); err != nil {
		return nil, core.NewUsageError(core.ErrMissingParameter, err.Error())
	}

	kind := DetectKind(config.Endpoint)
	subs, err := validateSubscriptions(kind, config)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	w := &WebSocket{
		config:     config,
		kind:       kind,
		version:    spotVersion(config.Endpoint),
		buffer:     NewTopicBuffer(config.BufferSize, config.EventTopics),
		logger:     o.logger.With().Str("component", "websocket").Str("kind", kind.String()).Logger(),
		now:        o.clock,
		active:     subs,
		subscribed: make(map[string]struct{}),
		handlers:   make(map[string]func(Message)),
	}

	w.client = ws.NewClient(ws.Config{
		URL:                  config.Endpoint,
		ReconnectEnabled:     config.RestartOnError,
		MaxReconnectAttempts: config.MaxReconnectAttempts,
		ReconnectWait:        config.ReconnectWait,
		PingInterval:         config.PingInterval,
	}, ws.Hooks{
		OnMessage: w.handle,
		OnConnect: w.handshake,
		OnError:   w.emitError,
		Ping:      w.ping,
	})
	w.client.SetLogger(w.logger)

	return w, nil
}

func validateSubscriptions(kind ConnKind, config *WSConfig) ([]Subscription, error) {
	subs := slices.Clone(config.Subscriptions)
	creds := config.Credentials

	if creds != nil && !creds.Valid() {
		return nil, core.NewError(core.ErrorTypeAuthentication, "api key and secret must both be set").
			Wrap(core.ErrNoCredentials)
	}

	if len(subs) == 0 {
		if kind != KindSpotPrivate {
			return nil, core.NewUsageError(core.ErrMissingParameter, "subscription list cannot be empty")
		}
		subs = Topics(spotPrivateTopics...)
	}

	switch kind {
	case KindSpotPublic:
		if creds != nil {
			return nil, core.NewUsageError(core.ErrUnsupportedOperation, "public topics do not require authentication")
		}
	case KindSpotPrivate:
		if creds == nil {
			return nil, core.NewError(core.ErrorTypeAuthentication, "private spot stream requires api keys").
				Wrap(core.ErrNoCredentials)
		}
	}

	for _, s := range subs {
		if err := validateSubscription(kind, s, creds); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func validateSubscription(kind ConnKind, s Subscription, creds *core.Credentials) error {
	if kind == KindSpotPublic {
		if !s.IsFilter() || s.Filter.Topic == "" || s.Filter.Params.Symbol == "" {
			return core.NewUsageError(core.ErrMissingParameter, "public spot subscriptions need a topic and symbol filter")
		}
		return nil
	}

	if s.IsFilter() || s.Topic == "" {
		return core.NewUsageError(core.ErrMissingParameter, fmt.Sprintf("%s subscriptions must be plain topics", kind))
	}
	if kind == KindDerivatives {
		if hint, ok := bareTopics[s.Topic]; ok {
			return core.NewUsageError(core.ErrMissingParameter, hint)
		}
		if creds == nil && slices.Contains(privateTopics, s.Topic) {
			return core.NewError(core.ErrorTypeAuthentication, "you must be authorized to use private topics").
				Wrap(core.ErrNoCredentials)
		}
	}
	return nil
}

// Kind returns the endpoint kind.
func (w *WebSocket) Kind() ConnKind {
	return w.kind
}

// Connect dials the endpoint, authenticates when credentials are set and subscribes the
// active set. It returns once every subscription is acknowledged.
func (w *WebSocket) Connect(ctx context.Context) error {
	err := w.client.Connect(ctx)
	if core.IsAuthenticationError(err) {
		w.client.DisableReconnect()
	}
	return err
}

func (w *WebSocket) handshake(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.config.AckTimeout)
	defer cancel()

	waiter := make(chan ackEvent, 64)
	w.mu.Lock()
	w.waiter = waiter
	w.subscribed = make(map[string]struct{})
	subs := slices.Clone(w.active)
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.waiter = nil
		w.mu.Unlock()
	}()

	if creds := w.config.Credentials; creds.Valid() {
		auth := map[string]any{"op": "auth", "args": websocketAuthArgs(creds, w.now())}
		if err := w.client.SendJSON(auth); err != nil {
			return err
		}
		if err := w.await(ctx, waiter, "auth", nil); err != nil {
			return err
		}
		w.client.Advance(ws.StateAuthenticated)
		w.logger.Info().Msg("authorization successful")
	}

	if w.kind == KindSpotPrivate || len(subs) == 0 {
		return nil
	}

	if err := w.sendSubscribe(subs); err != nil {
		return err
	}
	return w.await(ctx, waiter, "subscribe", w.keys(subs))
}

func (w *WebSocket) await(ctx context.Context, waiter <-chan ackEvent, op string, keys []string) error {
	pending := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		pending[k] = struct{}{}
	}

	for {
		select {
		case ev := <-waiter:
			if ev.op != op {
				continue
			}
			if ev.err != nil {
				return ev.err
			}
			for _, k := range ev.keys {
				delete(pending, k)
			}
			if len(pending) == 0 {
				return nil
			}
		case <-ctx.Done():
			return core.NewError(core.ErrorTypeTimeout, fmt.Sprintf("no %s acknowledgement", op)).Wrap(ctx.Err())
		}
	}
}

// notify hands an ack to a waiting handshake. It reports false when nobody is waiting.
func (w *WebSocket) notify(ev ackEvent) bool {
	w.mu.RLock()
	waiter := w.waiter
	w.mu.RUnlock()
	if waiter == nil {
		return false
	}
	select {
	case waiter <- ev:
		return true
	default:
		return false
	}
}

func (w *WebSocket) keys(subs []Subscription) []string {
	keys := make([]string, len(subs))
	for i, s := range subs {
		keys[i] = s.Key(w.version)
	}
	return keys
}

func (w *WebSocket) sendSubscribe(subs []Subscription) error {
	return w.sendSubscription("subscribe", "sub", subs)
}

func (w *WebSocket) sendSubscription(op, event string, subs []Subscription) error {
	if w.kind == KindSpotPublic {
		for _, s := range subs {
			if err := w.client.SendJSON(s.Filter.withEvent(event)); err != nil {
				return err
			}
		}
		return nil
	}
	topics := make([]string, len(subs))
	for i, s := range subs {
		topics[i] = s.Topic
	}
	return w.client.SendJSON(map[string]any{"op": op, "args": topics})
}

// Subscribe adds subscriptions at runtime. They are sent immediately when connected
// and are part of the set restored after a reconnect.
func (w *WebSocket) Subscribe(ctx context.Context, subs ...Subscription) error {
	if w.kind == KindSpotPrivate {
		return core.NewUsageError(core.ErrUnsupportedOperation, "private spot topics are fixed")
	}
	for _, s := range subs {
		if err := validateSubscription(w.kind, s, w.config.Credentials); err != nil {
			return err
		}
	}

	w.mu.Lock()
	existing := make(map[string]struct{}, len(w.active))
	for _, s := range w.active {
		existing[s.Key(w.version)] = struct{}{}
	}
	added := make([]Subscription, 0, len(subs))
	for _, s := range subs {
		k := s.Key(w.version)
		if _, ok := existing[k]; ok {
			continue
		}
		existing[k] = struct{}{}
		added = append(added, s)
	}
	w.active = append(w.active, added...)
	w.mu.Unlock()

	if len(added) == 0 || !w.client.IsConnected() {
		return nil
	}
	return w.sendSubscribe(added)
}

// Unsubscribe removes subscriptions from the active set and tells the server.
func (w *WebSocket) Unsubscribe(ctx context.Context, subs ...Subscription) error {
	if w.kind == KindSpotPrivate {
		return core.NewUsageError(core.ErrUnsupportedOperation, "private spot topics are fixed")
	}

	drop := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		drop[s.Key(w.version)] = struct{}{}
	}

	w.mu.Lock()
	removed := make([]Subscription, 0, len(subs))
	w.active = slices.DeleteFunc(w.active, func(s Subscription) bool {
		_, ok := drop[s.Key(w.version)]
		if ok {
			removed = append(removed, s)
		}
		return ok
	})
	for k := range drop {
		delete(w.subscribed, k)
	}
	w.mu.Unlock()

	if len(removed) == 0 || !w.client.IsConnected() {
		return nil
	}
	return w.sendSubscription("unsubscribe", "cancel", removed)
}

// Active returns the buffer keys of the subscriptions restored on reconnect.
func (w *WebSocket) Active() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.keys(w.active)
}

// Subscribed returns the acknowledged topics, sorted.
func (w *WebSocket) Subscribed() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Sorted(maps.Keys(w.subscribed))
}

func (w *WebSocket) markSubscribed(keys ...string) {
	w.mu.Lock()
	for _, k := range keys {
		w.subscribed[k] = struct{}{}
	}
	w.mu.Unlock()

	for _, k := range keys {
		w.logger.Info().Str("topic", k).Msg("subscription successful")
	}
	w.client.Advance(ws.StateSubscribed)
}

func (w *WebSocket) markUnsubscribed(key string) {
	w.mu.Lock()
	delete(w.subscribed, key)
	w.mu.Unlock()

	w.logger.Info().Str("topic", key).Msg("unsubscribed")
}

// Fetch returns a copy of the messages buffered for topic. Before any message arrives it
// returns an empty slice.
func (w *WebSocket) Fetch(topic string) []Message {
	return w.buffer.Fetch(topic)
}

// FetchLatest returns the newest message for topic.
func (w *WebSocket) FetchLatest(topic string) (Message, bool) {
	return w.buffer.Latest(topic)
}

// Buffer exposes the underlying topic buffer.
func (w *WebSocket) Buffer() *TopicBuffer {
	return w.buffer
}

// Bind registers fn for topic. It runs on the receive loop after the message is buffered,
// so it must not block.
func (w *WebSocket) Bind(topic string, fn func(Message)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[topic] = fn
}

// Unbind removes the callback for topic.
func (w *WebSocket) Unbind(topic string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handlers, topic)
}

// OnError registers fn to receive stream errors: drops, failed acks and reconnect failures.
func (w *WebSocket) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

func (w *WebSocket) emitError(err error) {
	w.logger.Error().Err(err).Msg("websocket error")

	w.mu.RLock()
	fn := w.onError
	w.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// State returns the connection state.
func (w *WebSocket) State() ws.ConnState {
	return w.client.State()
}

// Reconnects returns how many reconnect attempts have been made.
func (w *WebSocket) Reconnects() int64 {
	return w.client.Reconnects()
}

// Close stops the stream for good.
func (w *WebSocket) Close() error {
	return w.client.Close()
}

func (w *WebSocket) ping() []byte {
	if w.kind == KindSpotPublic {
		return []byte(fmt.Sprintf(`{"ping":%d}`, w.now().UnixMilli()))
	}
	return []byte(`{"op":"ping"}`)
}

func (w *WebSocket) handle(data []byte) {
	var err error
	switch w.kind {
	case KindSpotPublic:
		err = w.handleSpotPublic(data)
	case KindSpotPrivate:
		err = w.handleSpotPrivate(data)
	default:
		err = w.handleDerivatives(data)
	}
	if err != nil {
		w.emitError(err)
	}
}

func (w *WebSocket) deliver(topic, typ string, raw json.RawMessage) {
	msg := Message{Topic: topic, Type: typ, Data: raw, ReceivedAt: w.now()}
	w.buffer.Store(msg)
	w.client.Advance(ws.StateStreaming)

	w.mu.RLock()
	fn := w.handlers[topic]
	w.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
}

func protocolError(err error, data []byte) error {
	return core.NewError(core.ErrorTypeProtocol, fmt.Sprintf("could not decode frame %.200s", data)).Wrap(err)
}

type derivativesFrame struct {
	Topic   string `json:"topic"`
	Type    string `json:"type"`
	Success *bool  `json:"success"`
	RetMsg  string `json:"ret_msg"`
	Request *struct {
		Op   string `json:"op"`
		Args []any  `json:"args"`
	} `json:"request"`
}

func (w *WebSocket) handleDerivatives(data []byte) error {
	var frame derivativesFrame
	if err := sonic.Unmarshal(data, &frame); err != nil {
		return protocolError(err, data)
	}

	if frame.Topic != "" {
		w.deliver(frame.Topic, frame.Type, data)
		return nil
	}
	if frame.Success == nil || frame.Request == nil {
		return nil
	}

	op := frame.Request.Op
	if !*frame.Success {
		var err error
		switch op {
		case "auth":
			w.client.DisableReconnect()
			err = core.NewError(core.ErrorTypeAuthentication, "authorization failed, check your api keys: "+frame.RetMsg)
		case "subscribe":
			err = core.NewError(core.ErrorTypeProtocol, "couldn't subscribe to topic: "+frame.RetMsg)
		default:
			return nil
		}
		if w.notify(ackEvent{op: op, err: err}) {
			return nil
		}
		return err
	}

	switch op {
	case "auth":
		w.notify(ackEvent{op: op})
	case "subscribe":
		keys := make([]string, 0, len(frame.Request.Args))
		for _, a := range frame.Request.Args {
			if s, ok := a.(string); ok {
				keys = append(keys, s)
			}
		}
		w.markSubscribed(keys...)
		w.notify(ackEvent{op: op, keys: keys})
	}
	return nil
}

type spotPublicFrame struct {
	Topic  string         `json:"topic"`
	Symbol *string        `json:"symbol"`
	Params map[string]any `json:"params"`
	Event  string         `json:"event"`
	Msg    string         `json:"msg"`
	Code   any            `json:"code"`
	Desc   string         `json:"desc"`
}

func (f *spotPublicFrame) param(name string) string {
	if v, ok := f.Params[name]; ok && v != nil {
		return core.FormatValue(v)
	}
	return ""
}

// canonical derives the buffer key. V1 frames carry a top-level symbol, V2 frames keep it in params.
func (f *spotPublicFrame) canonical(version string) string {
	symbol := f.param("symbol")
	if f.Symbol != nil {
		symbol = *f.Symbol
		if version == "" {
			version = "V1"
		}
	}
	if version == "" {
		version = "V2"
	}
	return spotTopic(f.Topic, version, f.param("klineType"), f.param("dumpScale"), symbol)
}

func (w *WebSocket) handleSpotPublic(data []byte) error {
	var frame spotPublicFrame
	if err := sonic.Unmarshal(data, &frame); err != nil {
		return protocolError(err, data)
	}

	// Acks echo the request event; "cancel" acknowledges an unsubscribe.
	switch {
	case frame.Msg == "Success" && frame.Event == "cancel":
		w.markUnsubscribed(frame.canonical(w.version))
	case frame.Msg == "Success":
		key := frame.canonical(w.version)
		w.markSubscribed(key)
		w.notify(ackEvent{op: "subscribe", keys: []string{key}})
	case frame.Topic != "":
		w.deliver(frame.canonical(""), "", data)
	case frame.Code != nil && core.FormatValue(frame.Code) != "0" && frame.Event == "cancel":
		return core.NewError(core.ErrorTypeProtocol,
			fmt.Sprintf("couldn't unsubscribe from topic, error %s: %s", core.FormatValue(frame.Code), frame.Desc))
	case frame.Code != nil && core.FormatValue(frame.Code) != "0":
		err := core.NewError(core.ErrorTypeProtocol,
			fmt.Sprintf("couldn't subscribe to topic, error %s: %s", core.FormatValue(frame.Code), frame.Desc))
		if !w.notify(ackEvent{op: "subscribe", err: err}) {
			return err
		}
	}
	return nil
}

func (w *WebSocket) handleSpotPrivate(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []json.RawMessage
		if err := sonic.Unmarshal(trimmed, &events); err != nil {
			return protocolError(err, data)
		}
		for _, ev := range events {
			var head struct {
				Event string `json:"e"`
			}
			if err := sonic.Unmarshal(ev, &head); err != nil {
				return protocolError(err, ev)
			}
			if head.Event != "" {
				w.deliver(head.Event, "", ev)
			}
		}
		return nil
	}

	var frame struct {
		Auth *string `json:"auth"`
	}
	if err := sonic.Unmarshal(trimmed, &frame); err != nil {
		return protocolError(err, data)
	}
	if frame.Auth == nil {
		return nil
	}

	if *frame.Auth != "success" {
		w.client.DisableReconnect()
		err := core.NewError(core.ErrorTypeAuthentication, "authorization failed, check your api keys")
		if w.notify(ackEvent{op: "auth", err: err}) {
			return nil
		}
		return err
	}

	w.mu.RLock()
	keys := w.keys(w.active)
	w.mu.RUnlock()
	w.markSubscribed(keys...)
	w.notify(ackEvent{op: "auth"})
	return nil
}
