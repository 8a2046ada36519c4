package v1

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/physiocore/clinic-api/internal/config"
	"github.com/physiocore/clinic-api/internal/domain"
	"github.com/physiocore/clinic-api/pkg/auth"
	"github.com/physiocore/clinic-api/pkg/metrics"
)

const claimsKey = "auth_claims"

func currentClaims(c *gin.Context) *domain.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*domain.Claims); ok {
			return claims
		}
	}
	return nil
}

// Authenticate validates the Bearer token and stores the claims on the
// request context.
func Authenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin gates mutation routes on the admin role. Runs after
// Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || claims.Role != domain.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Instrument records request counts, latencies, and the in-flight gauge.
func Instrument(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		collector.InFlightGauge.Inc()
		c.Next()
		collector.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		collector.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		collector.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// CORS applies the configured origin allow-list.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimit applies a per-IP token bucket to the public booking endpoints.
// Entries idle past ipLimiterIdleTTL are swept so the map stays bounded.
const ipLimiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*ipVisitor
	rps      rate.Limit
	burst    int
}

type ipVisitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(cfg config.RateLimitConfig) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*ipVisitor),
		rps:      rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.BurstSize,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &ipVisitor{lim: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.lim
}

func (l *ipLimiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

func (l *ipLimiter) sweep() {
	for range time.Tick(ipLimiterIdleTTL / 2) {
		l.evictIdle(time.Now().Add(-ipLimiterIdleTTL))
	}
}

func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := newIPLimiter(cfg)
	go limiter.sweep()
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			respondError(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
