package backend

import (
	"sync"
	"time"
)

// gate enforces a minimum interval between successive allowed operations.
// Calls inside the interval are rejected instead of delayed.
type gate struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newGate(interval time.Duration) *gate {
	if interval <= 0 {
		return &gate{}
	}
	return &gate{interval: interval}
}

func (g *gate) allow() bool {
	if g == nil || g.interval <= 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if now.Before(g.next) {
		return false
	}
	g.next = now.Add(g.interval)
	return true
}
