package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var errTransient = errors.New("connection reset")

func TestRetry(t *testing.T) {
	tests := []struct {
		name          string
		failures      int
		attempts      int
		expectedCalls int
		wantErr       bool
	}{
		{name: "éxito a la primera", failures: 0, attempts: 3, expectedCalls: 1},
		{name: "éxito tras dos fallos", failures: 2, attempts: 3, expectedCalls: 3},
		{name: "agota los intentos", failures: 5, attempts: 3, expectedCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return errTransient
				}
				return nil
			})

			assert.Equal(t, tt.expectedCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errTransient)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryIf_PermanentErrorStopsImmediately(t *testing.T) {
	permanent := errors.New("syntax error")
	calls := 0

	err := RetryIf(context.Background(), 5, time.Millisecond,
		func(err error) bool { return errors.Is(err, errTransient) },
		func() error {
			calls++
			return permanent
		})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, permanent)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error { return errTransient })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "desc", Ternary(true, "desc", "asc"))
	assert.Equal(t, 0, Ternary(false, 1, 0))
}

func TestFirstNonZero(t *testing.T) {
	assert.Equal(t, "redis:6379", FirstNonZero("", "redis:6379", "localhost:6379"))
	assert.Equal(t, 5, FirstNonZero(0, 5))
	assert.Equal(t, "", FirstNonZero[string]())
}

func TestUnmarshalAndHandle(t *testing.T) {
	var got struct{ Entity string }
	ok := UnmarshalAndHandle(zap.NewNop(), "search.executed", []byte(`{"Entity":"user"}`), func(v struct{ Entity string }) { got = v })
	assert.True(t, ok)
	assert.Equal(t, "user", got.Entity)

	called := false
	ok = UnmarshalAndHandle(zap.NewNop(), "search.executed", []byte(`{`), func(struct{ Entity string }) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
}
