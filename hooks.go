package geocache

// Eviction reasons passed to Hooks.Evicted.
const (
	EvictCapacity = "capacity" // LRU victim of a Put into a full cache
	EvictExplicit = "explicit" // Evict call
)

// Hooks lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking.
// Hit and Miss are called on every read.
type Hooks interface {
	Hit(cache string)
	Miss(cache string)

	// An entry was removed; reason is EvictCapacity or EvictExplicit.
	Evicted(cache string, reason string)

	// A reaper sweep physically removed expired entries (removed > 0).
	Expired(cache string, removed int)

	// Clear dropped all entries.
	Cleared(cache string, removed int)

	// The loader passed to GetOrLoad failed; nothing was stored.
	LoadFailed(cache string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)               {}
func (NopHooks) Miss(string)              {}
func (NopHooks) Evicted(string, string)   {}
func (NopHooks) Expired(string, int)      {}
func (NopHooks) Cleared(string, int)      {}
func (NopHooks) LoadFailed(string, error) {}

// MultiHooks fans every event out to hs in order. Nil members are skipped.
func MultiHooks(hs ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	switch len(out) {
	case 0:
		return NopHooks{}
	case 1:
		return out[0]
	}
	return out
}

type multiHooks []Hooks

func (m multiHooks) Hit(c string) {
	for _, h := range m {
		h.Hit(c)
	}
}

func (m multiHooks) Miss(c string) {
	for _, h := range m {
		h.Miss(c)
	}
}

func (m multiHooks) Evicted(c, reason string) {
	for _, h := range m {
		h.Evicted(c, reason)
	}
}

func (m multiHooks) Expired(c string, n int) {
	for _, h := range m {
		h.Expired(c, n)
	}
}

func (m multiHooks) Cleared(c string, n int) {
	for _, h := range m {
		h.Cleared(c, n)
	}
}

func (m multiHooks) LoadFailed(c string, err error) {
	for _, h := range m {
		h.LoadFailed(c, err)
	}
}
