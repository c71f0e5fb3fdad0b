package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// TokenParser turns a bearer token into the calling actor
type TokenParser interface {
	Parse(raw string) (entity.Actor, error)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// AccessLog logs method, path, status and duration and observes the request histogram
func AccessLog(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			d := time.Since(start)

			if m != nil {
				m.RequestDuration.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(sw.code)).Observe(d.Seconds())
			}
			log.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.code,
				"duration", d.String(),
				"requestID", middleware.GetReqID(r.Context()))
		})
	}
}

// routeLabel is the matched chi pattern, falling back to the raw path
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAgeSeconds  int
}

// CORSMiddleware answers preflights and echoes allowed origins; "*" allows any origin
func CORSMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	allowedMethods := opts.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := opts.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Content-Type", "Authorization"}
	}
	maxAge := opts.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 600
	}

	allowOrigin := func(origin string) bool {
		for _, o := range opts.AllowedOrigins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowOrigin(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(allowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(allowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate requires a valid bearer token and stores the actor in the context
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing bearer token", "")
				return
			}
			actor, err := tokens.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "could not validate credentials", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRoles rejects actors outside roles
func RequireRoles(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "not authenticated", "")
				return
			}
			if !actor.Role.In(roles) {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter keeps a token bucket per client IP
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond float64
	burst     int
	ttl       time.Duration
	now       func() time.Time
	// proxies whose X-Forwarded-For is believed
	trusted map[string]struct{}
}

type bucket struct {
	lim *rate.Limiter
	ts  time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		perSecond: perSecond,
		burst:     burst,
		ttl:       5 * time.Minute,
		now:       time.Now,
	}
}

// TrustProxies makes the limiter key requests arriving from these addresses by X-Forwarded-For
func (l *RateLimiter) TrustProxies(ips ...string) *RateLimiter {
	l.trusted = make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			l.trusted[ip] = struct{}{}
		}
	}
	return l
}

func (l *RateLimiter) isTrusted(ip string) bool {
	_, ok := l.trusted[ip]
	return ok
}

// Allow reports whether the client at ip may proceed, pruning idle buckets as it goes
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, b := range l.buckets {
		if now.Sub(b.ts) > l.ttl {
			delete(l.buckets, k)
		}
	}
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(l.perSecond), l.burst)}
		l.buckets[ip] = b
	}
	b.ts = now
	return b.lim.AllowN(now, 1)
}

// Middleware answers 429 once a client exhausts its bucket
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(ip) {
			WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the socket peer, or for a trusted proxy the nearest untrusted X-Forwarded-For hop
func (l *RateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !l.isTrusted(host) {
		return host
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !l.isTrusted(hop) {
			return hop
		}
	}
	return host
}
