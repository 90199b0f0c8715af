package middleware

import (
	"sync"
	"time"

	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	done    chan struct{}
	once    sync.Once
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// Call Close to stop the background cleanup.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	r := rate.Inf
	if perMinute > 0 {
		r = rate.Every(time.Minute / time.Duration(perMinute))
	}
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       r,
		burst:   burst,
		done:    make(chan struct{}),
	}
	go rl.cleanup(time.Minute, 3*time.Minute)
	return rl
}

func (rl *RateLimiter) cleanup(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.seen) > idle {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: time.Now()}
	return l
}

// RateLimit rejects requests with 429 once the client IP runs out of tokens.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			utils.TooManyRequests(c, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
