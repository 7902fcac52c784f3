package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bybitconn/pkg/core"
)

var (
	errConn = core.NewError(core.ErrorTypeConnectivity, "connection refused")
	errAPI  = core.NewAPIError(130021, "insufficient balance")
)

func newTestBreaker(clock *time.Time) *Breaker {
	b := New(Config{FailThreshold: 3, SuccessThreshold: 2, Timeout: time.Second})
	b.now = func() time.Time { return *clock }
	return b
}

func TestBreaker_OpensOnConnectivityFailures(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	for i := 0; i < 3; i++ {
		assert.NoError(t, b.Allow())
		b.Record(errConn)
	}

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), core.ErrCircuitBreakerOpen)
	assert.Equal(t, int64(1), b.Metrics().Rejected)
}

func TestBreaker_IgnoresAPIErrors(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	for i := 0; i < 10; i++ {
		b.Record(errAPI)
		b.Record(errors.New("plain"))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	b.Record(errConn)
	b.Record(errConn)
	b.Record(nil)
	b.Record(errConn)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 1, b.Metrics().Failures)
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	for i := 0; i < 3; i++ {
		b.Record(errConn)
	}
	assert.Equal(t, StateOpen, b.State())

	clock = clock.Add(time.Second)
	assert.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	b.Record(nil)
	assert.Equal(t, StateHalfOpen, b.State())
	b.Record(nil)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	for i := 0; i < 3; i++ {
		b.Record(errConn)
	}
	clock = clock.Add(2 * time.Second)
	assert.NoError(t, b.Allow())

	b.Record(core.NewError(core.ErrorTypeTimeout, "deadline exceeded"))
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), core.ErrCircuitBreakerOpen)
}

func TestBreaker_Reset(t *testing.T) {
	clock := time.Unix(0, 0)
	b := newTestBreaker(&clock)

	for i := 0; i < 3; i++ {
		b.Record(errConn)
	}
	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
	assert.Equal(t, "CLOSED", b.State().String())
}
