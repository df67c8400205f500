package broadcast_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"moviebook/pkg/broadcast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_NotifyCoalesces(t *testing.T) {
	h := broadcast.New()
	signals, cancel := h.Subscribe()
	defer cancel()

	h.Notify()
	h.Notify()
	h.Notify()

	select {
	case <-signals:
	default:
		t.Fatal("expected a pending signal")
	}
	select {
	case <-signals:
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	h := broadcast.New()
	_, cancel := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, h.Subscribers())
}

func TestHub_Hooks(t *testing.T) {
	h := broadcast.New()
	var calls atomic.Int32
	h.OnNotify(func() { calls.Add(1) })

	h.Notify()
	h.NotifyLocal()
	h.Notify()

	assert.Equal(t, int32(2), calls.Load())
}

func TestWatch(t *testing.T) {
	h := broadcast.New()
	var loads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	out := broadcast.Watch(ctx, h, func(context.Context) int32 {
		return loads.Add(1)
	})

	assert.Equal(t, int32(1), receive(t, out))

	h.Notify()
	assert.Equal(t, int32(2), receive(t, out))

	h.Notify()
	assert.Equal(t, int32(3), receive(t, out))

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-out
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, h.Subscribers())
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}
