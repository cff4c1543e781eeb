// Package loghooks implements geocache.Hooks by emitting log events through a
// geocache.Logger, with optional sampling of the high-volume read events.
package loghooks

import (
	"sync/atomic"

	"github.com/unkn0wn-root/geocache"
)

type Options struct {
	// Sampling to avoid floods; 0 disables the event, 1 logs all.
	HitEvery  uint64
	MissEvery uint64
}

type Hooks struct {
	l    geocache.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ geocache.Hooks = (*Hooks)(nil)

func New(l geocache.Logger, opts Options) *Hooks {
	if l == nil {
		l = geocache.NopLogger{}
	}
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	switch n {
	case 0:
		return false
	case 1:
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(cache string) {
	if !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("geocache.hit", geocache.Fields{"cache": cache, "every": h.opts.HitEvery})
}

func (h *Hooks) Miss(cache string) {
	if !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("geocache.miss", geocache.Fields{"cache": cache, "every": h.opts.MissEvery})
}

func (h *Hooks) Evicted(cache, reason string) {
	h.l.Info("geocache.evicted", geocache.Fields{"cache": cache, "reason": reason})
}

func (h *Hooks) Expired(cache string, removed int) {
	h.l.Info("geocache.expired", geocache.Fields{"cache": cache, "removed": removed})
}

func (h *Hooks) Cleared(cache string, removed int) {
	h.l.Info("geocache.cleared", geocache.Fields{"cache": cache, "removed": removed})
}

func (h *Hooks) LoadFailed(cache string, err error) {
	h.l.Warn("geocache.load_failed", geocache.Fields{"cache": cache, "err": err})
}
