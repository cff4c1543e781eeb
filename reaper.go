package geocache

// reapLoop sweeps expired entries every TTL until Close.
func (c *Cache[K, V]) reapLoop() {
	defer c.closeWg.Done()
	for {
		select {
		case <-c.ticker.C:
			c.reap()
		case <-c.stopCh:
			return
		}
	}
}

// reap removes every entry idle for longer than TTL, holding one shard lock
// at a time so point operations on other shards proceed.
func (c *Cache[K, V]) reap() int {
	removed := 0
	debug := debugEnabled(c.log)
	for _, s := range c.shards {
		now := c.stamp()
		s.mu.Lock()
		for k, e := range s.m {
			if c.expired(e, now) {
				delete(s.m, k)
				removed++
				if debug {
					c.log.Debug("removing expired entry", Fields{"key": k})
				}
			}
		}
		s.mu.Unlock()
	}
	if removed == 0 {
		return 0
	}

	c.size.Add(-int64(removed))
	c.expirations.Add(uint64(removed))
	c.hooks.Expired(c.name, removed)
	c.log.Info("cleaned up expired entries", Fields{"removed": removed})
	return removed
}
