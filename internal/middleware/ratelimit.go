// internal/middleware/ratelimit.go
package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/webutil"

	"golang.org/x/time/rate"
)

// maxTrackedClients を超えたら、しばらく使われていないクライアントの制限を捨てます。
const (
	maxTrackedClients = 1024
	clientIdleTimeout = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter はクライアント (RemoteAddr のホスト部分) ごとのトークンバケットです。
type RateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter の rps が 0 以下なら制限しません。
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *RateLimiter) reserve(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.clients) >= maxTrackedClients {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > clientIdleTimeout {
				delete(rl.clients, k)
			}
		}
	}
	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Duration(math.MaxInt64)
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d
	}
	return 0
}

// Middleware は制限を超えたリクエストに 429 と Retry-After を返します。
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.rps <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}

		if wait := rl.reserve(key); wait > 0 {
			logger := GetLogger(r.Context())
			logger.Warn("Rate limit exceeded", slog.String("client", key), slog.Duration("retry_after", wait))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			webutil.RespondWithJSON(w, http.StatusTooManyRequests, model.APIErrorResponse{
				Error: model.ErrorDetail{Code: "TOO_MANY_REQUESTS", Message: "Too many requests. Try again later."},
			}, logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}
