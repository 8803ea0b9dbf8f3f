package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"calbuddy/internal/calendar/config"
	"calbuddy/pkg/logger"
)

const (
	ErrorTooManyRequests = "Too many requests"

	LogRateLimitExceeded = "rate limit exceeded"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter хранит token bucket на каждый IP клиента.
// Клиенты без запросов дольше idleTTL вытесняются.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	maxClients int
	trustProxy bool
	now        func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

// NewRateLimiter создает ограничитель по настройкам.
func NewRateLimiter(cfg config.RateLimitConfig, trustProxy bool) *RateLimiter {
	return newRateLimiter(cfg, trustProxy, time.Now)
}

func newRateLimiter(cfg config.RateLimitConfig, trustProxy bool, now func() time.Time) *RateLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)

	// Вытеснение не должно выдавать токены раньше полного восстановления корзины.
	idleTTL := cfg.IdleTTL
	if refill := time.Duration(float64(cfg.Burst) / float64(limit) * float64(time.Second)); refill > idleTTL {
		idleTTL = refill
	}

	return &RateLimiter{
		limit:      limit,
		burst:      cfg.Burst,
		idleTTL:    idleTTL,
		maxClients: cfg.MaxClients,
		trustProxy: trustProxy,
		now:        now,
		clients:    make(map[string]*clientLimiter),
		lastSweep:  now(),
	}
}

// Allow расходует один токен клиента key.
// Новый клиент при заполненной таблице получает отказ.
func (r *RateLimiter) Allow(key string) bool {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.sweep(now)
	}

	client, ok := r.clients[key]
	if !ok {
		if r.maxClients > 0 && len(r.clients) >= r.maxClients {
			return false
		}
		client = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[key] = client
	}

	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// Clients возвращает число отслеживаемых клиентов.
func (r *RateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *RateLimiter) sweep(now time.Time) {
	for key, client := range r.clients {
		if now.Sub(client.lastSeen) >= r.idleTTL {
			delete(r.clients, key)
		}
	}
	r.lastSweep = now
}

// Handler возвращает middleware, отвечающее 429 при исчерпании лимита.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := r.clientIP(c)
		if r.Allow(key) {
			return c.Next()
		}

		requestCtx := RequestContext(c)
		logger.Log(requestCtx).Warn(requestCtx, LogRateLimitExceeded, zap.String("ip", key))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": ErrorTooManyRequests})
	}
}

func (r *RateLimiter) clientIP(c fiber.Ctx) string {
	if r.trustProxy {
		if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	return c.IP()
}

// NewRateLimitMiddleware создает ограничитель или пропускающий обработчик, если лимит выключен.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, trustProxy bool) fiber.Handler {
	if !cfg.Enabled() {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	return NewRateLimiter(cfg, trustProxy).Handler()
}
