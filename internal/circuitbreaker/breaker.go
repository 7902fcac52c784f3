package circuitbreaker

import (
	"sync"
	"time"

	"bybitconn/pkg/core"
)

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

type Config struct {
	FailThreshold    int           `json:"fail_threshold"`
	SuccessThreshold int           `json:"success_threshold"`
	Timeout          time.Duration `json:"timeout"`
}

// Breaker stops sending REST calls after consecutive transport failures.
// Exchange rejections are answers, not outages, and never trip it.
type Breaker struct {
	mu               sync.Mutex
	state            State
	failures         int
	successes        int
	openedAt         time.Time
	failThreshold    int
	successThreshold int
	timeout          time.Duration
	now              func() time.Time

	rejected     int64
	stateChanges int64
}

func New(config Config) *Breaker {
	return &Breaker{
		failThreshold:    config.FailThreshold,
		successThreshold: config.SuccessThreshold,
		timeout:          config.Timeout,
		now:              time.Now,
	}
}

// Allow returns core.ErrCircuitBreakerOpen while the breaker is open.
// Once the timeout has elapsed it lets calls through in half-open state.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.timeout {
			b.rejected++
			return core.ErrCircuitBreakerOpen
		}
		b.transition(StateHalfOpen)
	}
	return nil
}

// Record feeds the outcome of a call. Only connectivity and timeout errors count as failures.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if core.IsConnectivityError(err) {
		b.successes = 0
		b.failures++
		switch b.state {
		case StateHalfOpen:
			b.open()
		case StateClosed:
			if b.failures >= b.failThreshold {
				b.open()
			}
		}
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.successThreshold {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.transition(StateOpen)
}

func (b *Breaker) transition(s State) {
	if b.state == s {
		return
	}
	b.state = s
	b.failures = 0
	b.successes = 0
	b.stateChanges++
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
}

func (b *Breaker) Metrics() MetricsSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return MetricsSnapshot{
		State:        b.state,
		Failures:     b.failures,
		Rejected:     b.rejected,
		StateChanges: b.stateChanges,
	}
}

type MetricsSnapshot struct {
	State        State
	Failures     int
	Rejected     int64
	StateChanges int64
}
