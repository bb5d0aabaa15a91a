package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/sustainabite/internal/middleware"
)

// DataService はハンドラーが利用するデータサービスの全操作。
// dataservice.MockServiceが実装する。
type DataService interface {
	DashboardService
	CatalogService
	ProductFinder
	OrderServiceInterface
	InventoryServiceInterface
	AnalyticsServiceInterface
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusRecorder    middleware.HTTPStatusRecorder // nilの場合はステータスを記録しない

	// ヘルスチェック・メトリクス
	HealthCheckers map[string]HealthChecker
	MetricsHandler http.Handler // nilの場合は/metricsを公開しない

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメイン
	Workspaces        WorkspaceStore
	DataService       DataService
	CheckoutService   CheckoutServiceInterface
	ProfileService    ProfileServiceInterface
	InventoryRecorder InventoryRecorder
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Logging → Metrics → SecurityHeaders → CORS
//	→ SessionMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// ヘルスチェック・メトリクス・認証ルート（/auth/*）はセッションチェックの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	healthHandler := NewHealthHandler(deps.HealthCheckers)
	authHandler := NewAuthHandler(deps.AuthService, deps.Workspaces, deps.AuthConfig)
	dashboardHandler := NewDashboardHandler(deps.DataService)
	catalogHandler := NewCatalogHandler(deps.DataService, deps.Workspaces)
	cartHandler := NewCartHandler(deps.DataService, deps.Workspaces)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutService, deps.Workspaces)
	orderHandler := NewOrderHandler(deps.DataService)
	inventoryHandler := NewInventoryHandler(deps.DataService, deps.Workspaces, deps.InventoryRecorder)
	analyticsHandler := NewAnalyticsHandler(deps.DataService, deps.Workspaces)
	notificationHandler := NewNotificationHandler(deps.Workspaces)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Workspaces)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/dashboard", dashboardHandler.Get)

		// 発注
		r.Get("/api/categories", catalogHandler.ListCategories)
		r.Get("/api/products", catalogHandler.ListProducts)

		// カート
		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateItem)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		// POST /api/checkout - 注文確定（注文専用レート制限を追加）
		r.With(deps.RateLimiter.CheckoutMiddleware()).Post("/api/checkout", checkoutHandler.Checkout)

		// 注文履歴
		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
		})

		// 在庫
		r.Route("/api/inventory", func(r chi.Router) {
			r.Get("/", inventoryHandler.List)
			r.Post("/{id}/edit", inventoryHandler.BeginEdit)
			r.Put("/edit", inventoryHandler.SaveEdit)
			r.Delete("/edit", inventoryHandler.CancelEdit)
		})

		// 分析
		r.Route("/api/analytics", func(r chi.Router) {
			r.Get("/orders", analyticsHandler.Orders)
			r.Get("/savings", analyticsHandler.Savings)
		})

		// 通知
		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Delete("/{id}", notificationHandler.Dismiss)
		})

		r.Put("/api/profile", profileHandler.Update)
	})

	return r
}
