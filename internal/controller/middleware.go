package controller

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	requestIDKey
)

const requestIDHeader = "X-Request-ID"

// withRequestID назначает запросу UUID, входящий X-Request-ID сохраняется если он валиден
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// sessionFrom сессия, положенная requireSession
func sessionFrom(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(model.Session)
	return sess, ok
}

// rateLimiter лимит запросов на клиента (IP). Клиенты опрашивают сервер каждые 5-30 секунд.
type rateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientLimiter
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	maxIdle    int
	maxClients int
	sweepEvery time.Duration
	lastSweep  time.Time
	trusted    []*net.IPNet
	now        func() time.Time
	logger     *zap.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(perMinute int, trusted []*net.IPNet, logger *zap.Logger) *rateLimiter {
	return &rateLimiter{
		clients:    make(map[string]*clientLimiter),
		limit:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      perMinute,
		idleTTL:    10 * time.Minute,
		maxIdle:    4096,
		maxClients: 16384,
		sweepEvery: time.Minute,
		trusted:    trusted,
		now:        time.Now,
		logger:     logger,
	}
}

// get возвращает лимитер клиента. false - таблица клиентов заполнена и новый ключ не принят.
func (rl *rateLimiter) get(key string) (*rate.Limiter, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		// Полный проход по карте не чаще раза в sweepEvery
		if len(rl.clients) >= rl.maxIdle && now.Sub(rl.lastSweep) >= rl.sweepEvery {
			rl.evictIdle(now)
			rl.lastSweep = now
		}
		if len(rl.clients) >= rl.maxClients {
			return nil, false
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter, true
}

// evictIdle вызывается под mu
func (rl *rateLimiter) evictIdle(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		limiter, ok := rl.get(ip)
		if !ok || !limiter.Allow() {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.Bool("table_full", !ok),
				zap.String("request_id", requestIDFrom(r.Context())),
			)
			writeJSON(w, http.StatusTooManyRequests, envelope{
				"status":  statusError,
				"message": "Rate limit exceeded. Try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP берёт адрес соединения. X-Forwarded-For читается только если соединение
// пришло от доверенного прокси: берётся крайний справа адрес не из доверенных сетей.
func (rl *rateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !rl.isTrusted(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			break
		}
		if !rl.isTrusted(hop) {
			return hop
		}
	}
	return host
}

func (rl *rateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range rl.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// requireSession проверяет Bearer-токен и собирает сессию с актуальным last_activity
func (c *PortalController) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.fail(w, r, ErrUnauthorized, "", nil)
			return
		}

		userID, role, err := c.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.fail(w, r, err, "", nil)
			return
		}

		sess, err := c.users.Session(r.Context(), userID, role)
		if err != nil {
			c.fail(w, r, err, "Failed to load session", nil)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, *sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole пропускает только указанную роль
func (c *PortalController) requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessionFrom(r.Context())
			if !ok {
				c.fail(w, r, ErrUnauthorized, "", nil)
				return
			}
			if sess.Role != role {
				c.logger.Info("Role check failed",
					zap.String("user_id", sess.UserID),
					zap.String("role", string(sess.Role)),
					zap.String("required", string(role)),
				)
				c.fail(w, r, service.ErrForbidden, "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// recoveryLogger адаптер zap для handlers.RecoveryHandler
type recoveryLogger struct {
	logger *zap.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("Recovered from panic", zap.String("panic", fmt.Sprint(v...)))
}
