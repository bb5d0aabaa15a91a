package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/sustainabite/internal/auth"
	"github.com/hitoshi/sustainabite/internal/cart"
	"github.com/hitoshi/sustainabite/internal/checkout"
	"github.com/hitoshi/sustainabite/internal/config"
	"github.com/hitoshi/sustainabite/internal/database"
	"github.com/hitoshi/sustainabite/internal/dataservice"
	"github.com/hitoshi/sustainabite/internal/dataset"
	"github.com/hitoshi/sustainabite/internal/handler"
	"github.com/hitoshi/sustainabite/internal/metrics"
	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/notification"
	"github.com/hitoshi/sustainabite/internal/repository"
	"github.com/hitoshi/sustainabite/internal/security"
	"github.com/hitoshi/sustainabite/internal/user"
	"github.com/hitoshi/sustainabite/internal/worker/cleanup"
	"github.com/hitoshi/sustainabite/internal/workspace"
)

// freeTextMaxLength は配送メモ・店舗情報の最大文字数。
const freeTextMaxLength = 500

// Server はserveコマンドで起動するHTTPハンドラーとバックグラウンドジョブ一式。
type Server struct {
	Handler http.Handler

	cleanupJob    *cleanup.CleanupJob
	sweepInterval time.Duration
	rateLimiter   *middleware.RateLimiter
	closers       []func() error
}

// Build は設定に従って全依存関係をワイヤリングする。
// データはmemory/postgres、セッションはmemory/redisから選択する。
// 失敗した場合はそれまでに開いた接続を閉じてエラーを返す。
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (srv *Server, err error) {
	srv = &Server{sweepInterval: cfg.WorkspaceSweepInterval}
	defer func() {
		if err != nil {
			_ = srv.Close()
			srv = nil
		}
	}()

	healthCheckers := make(map[string]handler.HealthChecker)

	// 1. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 2. デモデータ（memoryバックエンドの初期データと、リポジトリに持たない固定データ）
	ds, err := dataset.Demo()
	if err != nil {
		return nil, fmt.Errorf("failed to load demo dataset: %w", err)
	}

	// 3. リポジトリ
	var repos dataservice.Repositories
	switch cfg.DataBackend {
	case config.BackendPostgres:
		db, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, db.Close)
		healthCheckers["database"] = db
		repos = dataservice.Repositories{
			Users:     repository.NewPostgresUserRepo(db),
			Inventory: repository.NewPostgresInventoryRepo(db),
			Catalog:   repository.NewPostgresCatalogRepo(db),
			Orders:    repository.NewPostgresOrderRepo(db),
		}
	default:
		mem := repository.NewMemoryRepos(ds)
		repos = dataservice.Repositories{
			Users:     mem.Users,
			Inventory: mem.Inventory,
			Catalog:   mem.Catalog,
			Orders:    mem.Orders,
		}
	}

	data := dataservice.NewMockService(repos,
		dataservice.Fixtures{NextDelivery: ds.NextDelivery, Savings: ds.Savings},
		dataservice.WithDelays(dataservice.Delays{
			Read:     cfg.MockReadDelay,
			SlowRead: cfg.MockSlowReadDelay,
			Write:    cfg.MockWriteDelay,
		}),
		dataservice.WithObserver(collector.RecordServiceCall),
	)

	// 4. セッションストレージ
	var (
		storage        auth.Storage
		expiredDeleter cleanup.ExpiredSessionDeleter
	)
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rs, err := auth.OpenRedisStorage(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, rs.Close)
		healthCheckers["redis"] = rs
		storage = rs
	default:
		ms := auth.NewMemoryStorage()
		storage = ms
		expiredDeleter = ms
	}

	// 5. ドメインサービス
	authService := auth.NewService(data, storage, auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge})
	sanitizer := security.NewTextSanitizer(freeTextMaxLength)
	checkoutService := checkout.NewService(data, sanitizer, collector)
	profileService := user.NewService(data, authService, sanitizer)

	workspaces := workspace.NewRegistry(workspace.Config{
		Pricing: cart.Pricing{
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
		},
		NotificationTTL: cfg.NotificationTTL,
	})
	workspaces.SetNotificationObserver(func(s notification.Severity) {
		collector.RecordNotification(string(s))
	})

	// 6. クリーンアップジョブ
	srv.cleanupJob = cleanup.NewCleanupJob(workspaces, expiredDeleter, collector, logger)
	srv.cleanupJob.IdleTimeout = time.Duration(cfg.SessionMaxAge) * time.Second

	// 7. ルーター
	srv.rateLimiter = middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitCheckout),
	)
	srv.rateLimiter.SetRejectObserver(collector)

	srv.Handler = handler.NewRouter(&handler.RouterDeps{
		Logger:            logger,
		SessionFinder:     authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       srv.rateLimiter,
		StatusRecorder:    collector,

		HealthCheckers: healthCheckers,
		MetricsHandler: metrics.Handler(registry),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		Workspaces:        workspaces,
		DataService:       data,
		CheckoutService:   checkoutService,
		ProfileService:    profileService,
		InventoryRecorder: collector,
	})

	slog.Info("dependencies wired",
		slog.String("data_backend", cfg.DataBackend),
		slog.String("session_backend", cfg.SessionBackend),
	)
	return srv, nil
}

// StartBackground はクリーンアップジョブを起動する。ctxのキャンセルで停止する。
func (s *Server) StartBackground(ctx context.Context) {
	go s.cleanupJob.Start(ctx, s.sweepInterval)
}

// Close はレート制限の掃除を止め、開いている接続を閉じる。
func (s *Server) Close() error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.rateLimiter = nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func openDatabase(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := database.Open(databaseURL)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}
