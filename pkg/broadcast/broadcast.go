package broadcast

import (
	"context"
	"sync"
)

// Hub fans change signals out to every subscriber. Signals coalesce: a
// subscriber that has not consumed the previous signal yet sees just one.
type Hub struct {
	mu    sync.Mutex
	subs  map[chan struct{}]struct{}
	hooks []func()
}

func New() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called to release it.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// OnNotify registers fn to run after every Notify. NotifyLocal skips it.
func (h *Hub) OnNotify(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, fn)
}

// Notify signals every subscriber, then runs the OnNotify hooks.
func (h *Hub) Notify() {
	h.NotifyLocal()

	h.mu.Lock()
	hooks := append([]func(){}, h.hooks...)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// NotifyLocal signals every subscriber without blocking.
func (h *Hub) NotifyLocal() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many listeners are registered.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Watch calls load once, then again after every signal on h, and sends each
// result on the returned channel. The channel is closed when ctx is done.
func Watch[T any](ctx context.Context, h *Hub, load func(context.Context) T) <-chan T {
	out := make(chan T)
	signals, cancel := h.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		for {
			select {
			case out <- load(ctx):
			case <-ctx.Done():
				return
			}

			select {
			case <-signals:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
