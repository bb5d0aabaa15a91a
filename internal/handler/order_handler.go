package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/model"
)

// OrderServiceInterface は注文履歴ハンドラーが必要とするデータサービスのインターフェース。
type OrderServiceInterface interface {
	OrderHistory(ctx context.Context, userID string) ([]model.Order, error)
	FindOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
}

// OrderHandler は注文履歴・注文確認のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrders はユーザーの注文を新しい順に返す。
// GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	orders, err := h.service.OrderHistory(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// GetOrder は注文1件を返す。他ユーザーの注文はORDER_NOT_FOUNDとなる。
// GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	order, err := h.service.FindOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
