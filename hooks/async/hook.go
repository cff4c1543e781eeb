// Package asynchook moves geocache.Hooks calls off the cache's hot path.
//
// usage:
//
//	raw := loghooks.New(logger, loghooks.Options{HitEvery: 100, MissEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	reg, _ := geocache.NewRegistry(geocache.Config{
//	    Caches: geocache.DefaultConfig().Caches,
//	    Hooks:  hooks,
//	})
//
// Events are dropped when the queue is full; Dropped reports how many.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/geocache"
)

type Hooks struct {
	inner   geocache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against concurrent sends
	closed  bool
	dropped atomic.Uint64
}

var _ geocache.Hooks = (*Hooks)(nil)

func New(inner geocache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped returns the number of events discarded because the queue was full
// or the hooks were closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(c string)                   { h.try(func() { h.inner.Hit(c) }) }
func (h *Hooks) Miss(c string)                  { h.try(func() { h.inner.Miss(c) }) }
func (h *Hooks) Evicted(c, reason string)       { h.try(func() { h.inner.Evicted(c, reason) }) }
func (h *Hooks) Expired(c string, n int)        { h.try(func() { h.inner.Expired(c, n) }) }
func (h *Hooks) Cleared(c string, n int)        { h.try(func() { h.inner.Cleared(c, n) }) }
func (h *Hooks) LoadFailed(c string, err error) { h.try(func() { h.inner.LoadFailed(c, err) }) }
