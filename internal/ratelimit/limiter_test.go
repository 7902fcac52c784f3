package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Burst(t *testing.T) {
	limiter := New(5, time.Second)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.class(ClassPrivate).Allow(), "request %d should be allowed", i+1)
	}

	assert.False(t, limiter.class(ClassPrivate).Allow(), "request 6 should be blocked")
}

func TestLimiter_ClassesAreIndependent(t *testing.T) {
	limiter := New(2, time.Second)

	assert.True(t, limiter.class(ClassPrivate).Allow())
	assert.True(t, limiter.class(ClassPrivate).Allow())
	assert.False(t, limiter.class(ClassPrivate).Allow())

	assert.True(t, limiter.class(ClassPublic).Allow(), "public budget is separate")
}

func TestLimiter_Wait(t *testing.T) {
	limiter := New(5, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		assert.NoError(t, limiter.Wait(context.Background(), ClassPublic))
	}

	start := time.Now()
	assert.NoError(t, limiter.Wait(context.Background(), ClassPublic))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	m := limiter.Metrics()
	assert.Equal(t, int64(6), m.Waits)
	assert.Equal(t, int64(1), m.Throttled)
	assert.Equal(t, 1, m.Classes)
}

func TestLimiter_Wait_ContextCancellation(t *testing.T) {
	limiter := New(1, time.Second)

	assert.NoError(t, limiter.Wait(context.Background(), ClassPrivate))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, ClassPrivate)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), limiter.Metrics().Cancelled)
}

func TestLimiter_SetClassLimit(t *testing.T) {
	limiter := New(1, time.Second)
	limiter.SetClassLimit(ClassPublic, 3, time.Second)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.class(ClassPublic).Allow())
	}
	assert.False(t, limiter.class(ClassPublic).Allow())
}
