package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func recordingPolicy(slept *[]time.Duration) Policy {
	p := DefaultPolicy(func(err error) bool { return errors.Is(err, errTransient) })
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	var slept []time.Duration
	calls := 0

	got, err := Do(context.Background(), recordingPolicy(&slept), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestDo_RetriesTransient(t *testing.T) {
	var slept []time.Duration
	calls := 0

	got, err := Do(context.Background(), recordingPolicy(&slept), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, slept)
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	var slept []time.Duration
	calls := 0

	_, err := Do(context.Background(), recordingPolicy(&slept), func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
	assert.Len(t, slept, 2)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	var slept []time.Duration
	permanent := errors.New("404")
	calls := 0

	_, err := Do(context.Background(), recordingPolicy(&slept), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy(nil)
	p.BaseDelay = time.Hour

	calls := 0
	_, err := Do(ctx, p, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Delay(t *testing.T) {
	p := DefaultPolicy(nil)

	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
	assert.Equal(t, 16*time.Second, p.Delay(4))
	assert.Equal(t, 30*time.Second, p.Delay(5))
	assert.Equal(t, 30*time.Second, p.Delay(10))
	assert.Equal(t, 2*time.Second, p.Delay(0))
}
