package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Interval(t *testing.T) {
	tests := []struct {
		name string
		rpm  int
		want time.Duration
	}{
		{"thirty per minute", 30, 2 * time.Second},
		{"six thousand per minute", 6000, 10 * time.Millisecond},
		{"zero falls back", 0, 2 * time.Second},
		{"negative falls back", -5, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.rpm).Interval())
		})
	}
}

func TestLimiter_FirstWaitIsImmediate(t *testing.T) {
	l := New(1)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiter_SpacesCalls(t *testing.T) {
	l := New(1200) // 50ms apart

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	// First call is free, the next three wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
}

func TestLimiter_ConcurrentCallers(t *testing.T) {
	l := New(1200)
	ctx := context.Background()

	var mu sync.Mutex
	var stamps []time.Time
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Wait(ctx))
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, stamps, 3)
	first, last := stamps[0], stamps[0]
	for _, s := range stamps {
		if s.Before(first) {
			first = s
		}
		if s.After(last) {
			last = s
		}
	}
	assert.GreaterOrEqual(t, last.Sub(first), 90*time.Millisecond)
}

func TestLimiter_Cancelled(t *testing.T) {
	l := New(1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, l.Wait(ctx))
}
