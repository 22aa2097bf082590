package registry

import (
	"sync"
	"time"
)

// breaker tracks consecutive construction failures for one component.
// At the threshold it opens for the cooldown window; while open,
// provisioning skips the expensive builder and serves the fallback.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration

	failures  int
	openUntil time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{threshold: threshold, cooldown: cooldown}
}

// allow reports whether a construction attempt may proceed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !time.Now().Before(b.openUntil)
}

// recordFailure counts one failed construction and reports whether this
// failure opened the breaker. An opened breaker clears the streak, so a
// fresh threshold of failures is needed after the cooldown.
func (b *breaker) recordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures < b.threshold {
		return false
	}
	b.failures = 0
	b.openUntil = time.Now().Add(b.cooldown)
	return true
}

// reset clears the streak and closes the breaker.
func (b *breaker) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.openUntil = time.Time{}
}
