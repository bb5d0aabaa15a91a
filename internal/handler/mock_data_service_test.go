package handler

import (
	"context"
	"sync"

	"github.com/hitoshi/sustainabite/internal/model"
)

// mockDataService はDataServiceのモック実装。
// 未設定の操作は空の結果を返す。
type mockDataService struct {
	mu sync.Mutex

	lowStockItemsFn       func(ctx context.Context, userID string) ([]model.LowStockItem, error)
	recentOrdersFn        func(ctx context.Context, userID string) ([]model.Order, error)
	nextDeliveryFn        func(ctx context.Context, userID string) (*model.Delivery, error)
	listCategoriesFn      func(ctx context.Context) ([]model.Category, error)
	listProductsFn        func(ctx context.Context) ([]model.Product, error)
	findProductFn         func(ctx context.Context, productID int64) (*model.Product, error)
	orderHistoryFn        func(ctx context.Context, userID string) ([]model.Order, error)
	findOrderFn           func(ctx context.Context, userID, orderID string) (*model.Order, error)
	listInventoryFn       func(ctx context.Context, userID string) ([]model.InventoryItem, error)
	updateInventoryItemFn func(ctx context.Context, update model.InventoryUpdate) (model.UpdateResult, error)
	orderAnalyticsFn      func(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.AnalyticsPoint, error)
	costSavingsFn         func(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.SavingsPoint, error)

	listInventoryCalls int
	updates            []model.InventoryUpdate
}

func (m *mockDataService) LowStockItems(ctx context.Context, userID string) ([]model.LowStockItem, error) {
	if m.lowStockItemsFn != nil {
		return m.lowStockItemsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDataService) RecentOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if m.recentOrdersFn != nil {
		return m.recentOrdersFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDataService) NextDelivery(ctx context.Context, userID string) (*model.Delivery, error) {
	if m.nextDeliveryFn != nil {
		return m.nextDeliveryFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDataService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockDataService) ListProducts(ctx context.Context) ([]model.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

func (m *mockDataService) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	if m.findProductFn != nil {
		return m.findProductFn(ctx, productID)
	}
	return nil, model.NewProductNotFoundError(productID)
}

func (m *mockDataService) OrderHistory(ctx context.Context, userID string) ([]model.Order, error) {
	if m.orderHistoryFn != nil {
		return m.orderHistoryFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDataService) FindOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	if m.findOrderFn != nil {
		return m.findOrderFn(ctx, userID, orderID)
	}
	return nil, model.NewOrderNotFoundError(orderID)
}

func (m *mockDataService) ListInventory(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	m.mu.Lock()
	m.listInventoryCalls++
	m.mu.Unlock()
	if m.listInventoryFn != nil {
		return m.listInventoryFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDataService) UpdateInventoryItem(ctx context.Context, update model.InventoryUpdate) (model.UpdateResult, error) {
	m.mu.Lock()
	m.updates = append(m.updates, update)
	m.mu.Unlock()
	if m.updateInventoryItemFn != nil {
		return m.updateInventoryItemFn(ctx, update)
	}
	return model.UpdateResult{Success: true}, nil
}

func (m *mockDataService) OrderAnalytics(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.AnalyticsPoint, error) {
	if m.orderAnalyticsFn != nil {
		return m.orderAnalyticsFn(ctx, userID, r)
	}
	return nil, nil
}

func (m *mockDataService) CostSavings(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.SavingsPoint, error) {
	if m.costSavingsFn != nil {
		return m.costSavingsFn(ctx, userID, r)
	}
	return nil, nil
}

// compile-time interface check
var _ DataService = (*mockDataService)(nil)
