package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per client IP with bursts of
// up to burst requests. Buckets idle for longer than ttl are dropped.
func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Handler returns the middleware. Rejected requests get 429 with a
// Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.reserve(clientIP(r))
		if delay := res.DelayFrom(rl.now()); delay > 0 {
			res.CancelAt(rl.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) reserve(ip string) *rate.Reservation {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.ReserveN(now, 1)
}

// Sweep drops buckets not used within the ttl. Run it periodically.
func (rl *RateLimiter) Sweep() int {
	cutoff := rl.now().Add(-rl.ttl)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			n++
		}
	}
	return n
}

// clientIP prefers the address set by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
