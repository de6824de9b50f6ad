package middleware

import (
	"net"
	"net/http"
	"sync"

	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// ClientRateLimiter hands out one token bucket per client key.
type ClientRateLimiter struct {
	clients map[string]*rate.Limiter
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

func (l *ClientRateLimiter) Limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.clients[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.clients[key] = limiter
	}
	return limiter
}

// RateLimitByClient throttles requests per remote host. Devices behind the
// same NAT share a bucket.
func RateLimitByClient(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewClientRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Limiter(clientKey(req)).Allow() {
				response.TooManyRequests(w, "Too many requests from this client")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
