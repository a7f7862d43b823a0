package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/realip"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID propagates X-Request-Id or assigns a new one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// getRequestID returns request id from context, empty if not set
func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// adminAuth allows the request only with valid basic auth credentials.
// Without configured admin password all admin routes answer 403.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	user := s.config.GetFullConfig().Server.AdminUser
	checker := func(u, p string) bool {
		if subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 {
			return false
		}
		return bcrypt.CompareHashAndPassword(s.adminHash, []byte(p)) == nil
	}
	authenticated := rest.BasicAuth(checker)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.adminHash) == 0 {
			renderError(w, r, errors.New("admin access is disabled, set server.admin_password"), http.StatusForbidden)
			return
		}
		authenticated.ServeHTTP(w, r)
	})
}

// limitStart rejects analysis starts above the configured per-client rate
func (s *Server) limitStart(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.startLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "5")
			renderError(w, r, errors.New("too many analysis requests, try again later"), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, err := realip.Get(r)
	if err != nil || ip == "" {
		return r.RemoteAddr
	}
	return ip
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps a token bucket per client, idle clients are dropped on access
type clientLimiter struct {
	rps      rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
	visitors map[string]*visitor
	lastGC   time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &clientLimiter{rps: limit, burst: burst, idle: 10 * time.Minute, visitors: map[string]*visitor{}}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.Allow()
	if !allowed {
		log.Printf("[WARN] analysis start rate limited for %s", key)
	}
	return allowed
}
