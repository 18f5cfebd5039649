package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	requestsPerWindow = 60
	limiterWindow     = time.Minute
	limiterStaleAfter = 10 * time.Minute
	limiterSweepEvery = 5 * time.Minute
)

// visit tracks one client's request count inside the current window.
type visit struct {
	windowStart time.Time
	seen        time.Time
	count       int
}

// rateLimiter caps mutating requests per client IP. Counting is fixed-window:
// the count resets once limiterWindow has passed since the window opened.
type rateLimiter struct {
	mu     sync.Mutex
	visits map[string]*visit
	done   chan struct{}
	once   sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		visits: make(map[string]*visit),
		done:   make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// allow records a request from clientIP and reports whether it is under the
// limit. Rejections bump the rate-limit counter in metrics.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v := rl.visits[clientIP]
	if v == nil || now.Sub(v.windowStart) > limiterWindow {
		rl.visits[clientIP] = &visit{windowStart: now, seen: now, count: 1}
		return true
	}

	v.count++
	v.seen = now
	if v.count <= requestsPerWindow {
		return true
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false
}

// activeClients reports how many client IPs the limiter currently tracks.
func (rl *rateLimiter) activeClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visits)
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

// sweep drops clients not seen for limiterStaleAfter so the map stays
// bounded by the set of recently active IPs.
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterStaleAfter)
			rl.mu.Lock()
			for ip, v := range rl.visits {
				if v.seen.Before(cutoff) {
					delete(rl.visits, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}
