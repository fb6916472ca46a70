package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"virtual-pet/internal/platform/metrics"

	"golang.org/x/time/rate"
)

// ThrottleConfig limita requests por identidad (o IP si no hay claims).
// Es un freno de transporte; las ventanas de play/earn las aplica el motor.
type ThrottleConfig struct {
	RequestsPerMinute float64
	Burst             int
	// IdleTTL: tras este tiempo sin requests se olvida el limiter.
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Throttle struct {
	cfg      ThrottleConfig
	mu       sync.Mutex
	visitors map[string]*visitor
	lastGC   time.Time
	now      func() time.Time
}

func NewThrottle(cfg ThrottleConfig) *Throttle {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 5 * time.Minute
	}
	return &Throttle{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Middleware debe ir después de AuthContext para ver las claims.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	if t == nil || t.cfg.RequestsPerMinute <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := clientID(r)
		if c, ok := GetClaims(r.Context()); ok && strings.TrimSpace(c.UserID) != "" {
			id = "user:" + c.UserID
		}

		lim := t.limiter(id)
		if !lim.Allow() {
			metrics.Throttled(r.Method)
			w.Header().Set("Retry-After", strconv.Itoa(t.retryAfterSeconds()))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds es el tiempo hasta que se repone un token.
func (t *Throttle) retryAfterSeconds() int {
	secs := int(math.Ceil(60.0 / t.cfg.RequestsPerMinute))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (t *Throttle) limiter(id string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastGC) > t.cfg.IdleTTL {
		for k, v := range t.visitors {
			if now.Sub(v.lastSeen) > t.cfg.IdleTTL {
				delete(t.visitors, k)
			}
		}
		t.lastGC = now
	}

	v, ok := t.visitors[id]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(t.cfg.RequestsPerMinute/60.0), t.cfg.Burst)}
		t.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter
}

func clientID(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if parsed := net.ParseIP(first); parsed != nil {
			return parsed.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
