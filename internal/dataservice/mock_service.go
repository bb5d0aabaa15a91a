// Package dataservice はバックエンドの代替となるモックデータサービスを提供する。
// 各操作は固定の遅延の後にリポジトリの内容を返し、非同期I/Oを模擬する。
package dataservice

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/sustainabite/internal/analytics"
	"github.com/hitoshi/sustainabite/internal/inventory"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/repository"
)

// 応答メッセージ
const (
	msgInvalidCredentials = "อีเมลหรือรหัสผ่านไม่ถูกต้อง"
	msgProfileSaved       = "บันทึกข้อมูลสำเร็จ"
	msgInventoryUpdated   = "อัปเดตข้อมูลสำเร็จ"
)

// recentOrdersLimit はダッシュボードに表示する直近注文数。
const recentOrdersLimit = 3

// Delays は操作種別ごとの模擬遅延。
type Delays struct {
	Read     time.Duration // カテゴリ・商品・ダッシュボード系
	SlowRead time.Duration // ログイン・在庫・分析系
	Write    time.Duration // 注文作成
}

// DefaultDelays は300ms/500ms/800msの既定遅延を返す。
func DefaultDelays() Delays {
	return Delays{
		Read:     300 * time.Millisecond,
		SlowRead: 500 * time.Millisecond,
		Write:    800 * time.Millisecond,
	}
}

// NoDelays は遅延なし。テスト用。
func NoDelays() Delays {
	return Delays{}
}

// Observer は操作ごとの所要時間を受け取る。メトリクス記録に使用する。
type Observer func(operation string, d time.Duration)

// Fixtures はリポジトリに持たない固定データ。
type Fixtures struct {
	NextDelivery *model.Delivery
	Savings      []model.SavingsPoint
}

// Repositories はMockServiceが参照するリポジトリ一式。
type Repositories struct {
	Users     repository.UserRepository
	Inventory repository.InventoryRepository
	Catalog   repository.CatalogRepository
	Orders    repository.OrderRepository
}

// MockService はモックデータサービス。
type MockService struct {
	repos     Repositories
	fixtures  Fixtures
	analytics *analytics.Generator
	delays    Delays
	now       func() time.Time
	observer  Observer

	idMu     sync.Mutex
	lastIDMs int64
}

// Option はMockServiceの設定を変更する。
type Option func(*MockService)

// WithDelays は模擬遅延を設定する。
func WithDelays(d Delays) Option {
	return func(s *MockService) { s.delays = d }
}

// WithClock は時刻関数を設定する。
func WithClock(now func() time.Time) Option {
	return func(s *MockService) { s.now = now }
}

// WithObserver は所要時間の観測者を設定する。
func WithObserver(o Observer) Option {
	return func(s *MockService) { s.observer = o }
}

// WithAnalytics は分析データの生成器を設定する。
func WithAnalytics(g *analytics.Generator) Option {
	return func(s *MockService) { s.analytics = g }
}

// NewMockService はMockServiceを生成する。
func NewMockService(repos Repositories, fixtures Fixtures, opts ...Option) *MockService {
	s := &MockService{
		repos:    repos,
		fixtures: fixtures,
		delays:   DefaultDelays(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.analytics == nil {
		s.analytics = analytics.NewGenerator()
	}
	return s
}

// Authenticate はメールアドレスとパスワードを照合する。
// 不一致の場合はSuccess=falseの結果を返し、errorは返さない。
func (s *MockService) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	defer s.observe("authenticate", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return model.AuthResult{}, err
	}

	acc, err := s.repos.Users.FindByEmail(ctx, creds.Email)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to find account: %w", err)
	}
	if acc == nil || subtle.ConstantTimeCompare([]byte(acc.Password), []byte(creds.Password)) != 1 {
		return model.AuthResult{Success: false, Message: msgInvalidCredentials}, nil
	}

	user := acc.User
	return model.AuthResult{Success: true, User: &user}, nil
}

// ListInventory はユーザーの在庫一覧を返す。
func (s *MockService) ListInventory(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	defer s.observe("list_inventory", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return nil, err
	}

	items, err := s.repos.Inventory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// UpdateInventoryItem は在庫数と最低在庫数を更新する。
func (s *MockService) UpdateInventoryItem(ctx context.Context, update model.InventoryUpdate) (model.UpdateResult, error) {
	defer s.observe("update_inventory_item", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return model.UpdateResult{}, err
	}

	if _, err := s.repos.Inventory.UpdateLevels(ctx, update); err != nil {
		return model.UpdateResult{}, err
	}

	slog.Info("inventory item updated",
		slog.Int64("item_id", update.ID),
		slog.String("user_id", update.UserID),
		slog.Float64("current_stock", update.CurrentStock),
		slog.Float64("min_level", update.MinLevel),
	)
	return model.UpdateResult{Success: true, Message: msgInventoryUpdated}, nil
}

// ListCategories はカテゴリ一覧を返す。
func (s *MockService) ListCategories(ctx context.Context) ([]model.Category, error) {
	defer s.observe("list_categories", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	categories, err := s.repos.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListProducts は商品一覧を返す。
func (s *MockService) ListProducts(ctx context.Context) ([]model.Product, error) {
	defer s.observe("list_products", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	products, err := s.repos.Catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindProduct はカート追加時の商品参照。遅延なしで返す。
// 存在しない場合はPRODUCT_NOT_FOUNDを返す。
func (s *MockService) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	p, err := s.repos.Catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if p == nil {
		return nil, model.NewProductNotFoundError(productID)
	}
	return p, nil
}

// LowStockItems は最低在庫数を下回る在庫を返す。
func (s *MockService) LowStockItems(ctx context.Context, userID string) ([]model.LowStockItem, error) {
	defer s.observe("low_stock_items", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	items, err := s.repos.Inventory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return inventory.LowStock(items), nil
}

// RecentOrders は直近3件の注文を新しい順に返す。
func (s *MockService) RecentOrders(ctx context.Context, userID string) ([]model.Order, error) {
	defer s.observe("recent_orders", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	orders, err := s.repos.Orders.ListByUser(ctx, userID, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// NextDelivery は次回配送の概要を返す。予定がない場合はnil。
func (s *MockService) NextDelivery(ctx context.Context, userID string) (*model.Delivery, error) {
	defer s.observe("next_delivery", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	if s.fixtures.NextDelivery == nil {
		return nil, nil
	}
	d := *s.fixtures.NextDelivery
	return &d, nil
}

// CreateOrder は注文を受け付けて保存する。
// 注文IDは「ORD-<UNIXミリ秒>」形式で採番し、同一ミリ秒内でも重複しない。
func (s *MockService) CreateOrder(ctx context.Context, order *model.Order) (model.CreateOrderResult, error) {
	defer s.observe("create_order", s.now())
	if err := s.wait(ctx, s.delays.Write); err != nil {
		return model.CreateOrderResult{}, err
	}

	now := s.now()
	order.ID = s.nextOrderID(now)
	order.CreatedAt = now
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	if err := s.repos.Orders.Create(ctx, order); err != nil {
		return model.CreateOrderResult{}, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.String("total", order.Total.StringFixed(2)),
		slog.Int("item_count", order.ItemCount),
	)
	return model.CreateOrderResult{Success: true, OrderID: order.ID}, nil
}

// OrderAnalytics は期間ごとの注文分析を返す。
func (s *MockService) OrderAnalytics(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.AnalyticsPoint, error) {
	defer s.observe("order_analytics", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return nil, err
	}
	return s.analytics.Orders(r)
}

// CostSavings はカテゴリ別の市場価格比較を返す。期間によらず同じ値。
func (s *MockService) CostSavings(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.SavingsPoint, error) {
	defer s.observe("cost_savings", s.now())
	if _, err := analytics.ParseRange(string(r)); err != nil {
		return nil, err
	}
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return nil, err
	}
	return append([]model.SavingsPoint(nil), s.fixtures.Savings...), nil
}

// OrderHistory はユーザーの全注文を新しい順に返す。
func (s *MockService) OrderHistory(ctx context.Context, userID string) ([]model.Order, error) {
	defer s.observe("order_history", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return nil, err
	}

	orders, err := s.repos.Orders.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// FindOrder はユーザーの注文を1件返す。存在しない場合はORDER_NOT_FOUND。
func (s *MockService) FindOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	defer s.observe("find_order", s.now())
	if err := s.wait(ctx, s.delays.Read); err != nil {
		return nil, err
	}

	o, err := s.repos.Orders.FindByID(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

// UpdateProfile は店舗情報を更新する。
func (s *MockService) UpdateProfile(ctx context.Context, user model.User) (model.UpdateResult, error) {
	defer s.observe("update_profile", s.now())
	if err := s.wait(ctx, s.delays.SlowRead); err != nil {
		return model.UpdateResult{}, err
	}

	if err := s.repos.Users.UpdateProfile(ctx, &user); err != nil {
		return model.UpdateResult{}, err
	}
	return model.UpdateResult{Success: true, Message: msgProfileSaved}, nil
}

// wait は模擬遅延の間待機する。コンテキストがキャンセルされた場合は即座に返る。
func (s *MockService) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *MockService) observe(operation string, start time.Time) {
	if s.observer != nil {
		s.observer(operation, s.now().Sub(start))
	}
}

func (s *MockService) nextOrderID(now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastIDMs {
		ms = s.lastIDMs + 1
	}
	s.lastIDMs = ms
	return fmt.Sprintf("ORD-%d", ms)
}
