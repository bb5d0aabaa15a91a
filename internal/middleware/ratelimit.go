package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/sustainabite/internal/model"
)

// レート制限のスコープ名。ログとメトリクスのラベルに使う。
const (
	ScopeGeneral  = "general"
	ScopeCheckout = "checkout"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）
	GeneralBurst    int           // API全般のバーストサイズ
	CheckoutRate    rate.Limit    // 注文確定のレート（req/sec）
	CheckoutBurst   int           // 注文確定のバーストサイズ
	CleanupInterval time.Duration // 使われなくなったリミッターの掃除間隔
}

// DefaultRateLimiterConfig はAPI全般 120 req/min、注文確定 10 req/min の設定を返す。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return NewRateLimiterConfig(120, 10)
}

// NewRateLimiterConfig はreq/min単位の指定からRateLimiterConfigを生成する。
// バーストサイズは1分間の上限と同じにする。
func NewRateLimiterConfig(generalPerMin, checkoutPerMin int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(generalPerMin) / 60.0),
		GeneralBurst:    generalPerMin,
		CheckoutRate:    rate.Limit(float64(checkoutPerMin) / 60.0),
		CheckoutBurst:   checkoutPerMin,
		CleanupInterval: 5 * time.Minute,
	}
}

// RejectObserver は429を返したときに呼ばれる。metrics.Collectorが実装する。
type RejectObserver interface {
	RecordRateLimited(scope string)
}

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterPool は1スコープ分のユーザー別リミッター。
type limiterPool struct {
	scope string
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*userLimiter
}

func newLimiterPool(scope string, limit rate.Limit, burst int) *limiterPool {
	return &limiterPool{
		scope:    scope,
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*userLimiter),
	}
}

// allow はユーザーのトークンを1つ消費できればtrueを返す。
func (p *limiterPool) allow(userID string, now time.Time) bool {
	p.mu.Lock()
	ul, ok := p.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.limiters[userID] = ul
	}
	ul.lastAccess = now
	p.mu.Unlock()

	return ul.limiter.AllowN(now, 1)
}

// evictIdle は最終アクセスからttlを超えたリミッターを削除し、削除数を返す。
func (p *limiterPool) evictIdle(now time.Time, ttl time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	evicted := 0
	for userID, ul := range p.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(p.limiters, userID)
			evicted++
		}
	}
	return evicted
}

func (p *limiterPool) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}

// RateLimiter はユーザーごとのレート制限を管理する。
// API全般と注文確定の2スコープは独立してトークンを消費する。
type RateLimiter struct {
	config   RateLimiterConfig
	general  *limiterPool
	checkout *limiterPool
	observer RejectObserver
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成し、リミッターの掃除を開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		general:  newLimiterPool(ScopeGeneral, config.GeneralRate, config.GeneralBurst),
		checkout: newLimiterPool(ScopeCheckout, config.CheckoutRate, config.CheckoutBurst),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// SetRejectObserver は429応答の記録先を設定する。
func (rl *RateLimiter) SetRejectObserver(o RejectObserver) {
	rl.observer = o
}

// Stop は掃除のゴルーチンを停止する。複数回呼んでもよい。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
// SessionMiddlewareの後に配置する。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general)
}

// CheckoutMiddleware は注文確定専用のレート制限ミドルウェアを返す。
func (rl *RateLimiter) CheckoutMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.checkout)
}

// GeneralLimiterCount は保持しているAPI全般リミッターの数を返す。
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.len()
}

// CheckoutLimiterCount は保持している注文確定リミッターの数を返す。
func (rl *RateLimiter) CheckoutLimiterCount() int {
	return rl.checkout.len()
}

func (rl *RateLimiter) middleware(pool *limiterPool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if !pool.allow(userID, rl.now()) {
				slog.Warn("rate limit exceeded",
					slog.String("user_id", userID),
					slog.String("limit_type", pool.scope),
				)
				if rl.observer != nil {
					rl.observer.RecordRateLimited(pool.scope)
				}
				writeRateLimitResponse(w, pool.limit)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセスがCleanupIntervalの2倍より古いリミッターを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := rl.now()
	rl.general.evictIdle(now, ttl)
	rl.checkout.evictIdle(now, ttl)
}

// writeRateLimitResponse は429を書き込む。
// Retry-Afterはトークンが1つ補充されるまでの秒数（最低1秒）。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := 1
	if r > 0 {
		retryAfterSec = int(math.Max(1, math.Ceil(1.0/float64(r))))
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, model.NewRateLimitExceededError())
}
