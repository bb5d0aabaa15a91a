package handler

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/model"
)

// DashboardService はダッシュボードが必要とするデータサービスのインターフェース。
type DashboardService interface {
	LowStockItems(ctx context.Context, userID string) ([]model.LowStockItem, error)
	RecentOrders(ctx context.Context, userID string) ([]model.Order, error)
	NextDelivery(ctx context.Context, userID string) (*model.Delivery, error)
}

// DashboardHandler はダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardResponse struct {
	LowStockItems []lowStockResponse `json:"low_stock_items"`
	RecentOrders  []orderResponse    `json:"recent_orders"`
	NextDelivery  *deliveryResponse  `json:"next_delivery"`
}

// Get は在庫警告・最近の注文・次回配送をまとめて返す。
// 3つの取得は並行して行い、1つでも失敗した場合はエラーを返す。
// GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var (
		lowStock []model.LowStockItem
		recent   []model.Order
		delivery *model.Delivery
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		lowStock, err = h.service.LowStockItems(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.service.RecentOrders(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		delivery, err = h.service.NextDelivery(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		handleServiceError(w, err)
		return
	}

	resp := dashboardResponse{
		LowStockItems: make([]lowStockResponse, 0, len(lowStock)),
		RecentOrders:  toOrderResponses(recent),
		NextDelivery:  toDeliveryResponse(delivery),
	}
	for _, it := range lowStock {
		resp.LowStockItems = append(resp.LowStockItems, lowStockResponse(it))
	}

	writeJSON(w, http.StatusOK, resp)
}
