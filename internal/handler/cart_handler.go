package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
)

// ProductFinder はカート追加時に商品を検索するインターフェース。
type ProductFinder interface {
	FindProduct(ctx context.Context, productID int64) (*model.Product, error)
}

// CartHandler はカート操作のHTTPハンドラー。
type CartHandler struct {
	products   ProductFinder
	workspaces WorkspaceProvider
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(products ProductFinder, workspaces WorkspaceProvider) *CartHandler {
	return &CartHandler{
		products:   products,
		workspaces: workspaces,
	}
}

// addCartItemRequest はカート追加リクエストのボディ。
// quantityが1未満または未指定の場合は1として扱う。
type addCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// updateCartItemRequest は数量変更リクエストのボディ。
type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart はカートの明細と金額を返す。
// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(ws.Cart.Summary()))
}

// ClearCart はカートを空にする。
// DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	ws.Cart.Clear()
	writeJSON(w, http.StatusOK, toCartResponse(ws.Cart.Summary()))
}

// AddItem は商品をカートに追加する。同じ商品は既存の行に数量を加算する。
// POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var req addCartItemRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	product, err := h.products.FindProduct(r.Context(), req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	ws.Cart.Add(*product, req.Quantity)
	ws.Notifications.Push(fmt.Sprintf("เพิ่ม %s ลงในตะกร้าแล้ว", product.Name), notification.SeveritySuccess)

	writeJSON(w, http.StatusOK, toCartResponse(ws.Cart.Summary()))
}

// UpdateItem はカート内の商品の数量を変更する。0以下の場合は行を削除する。
// PUT /api/cart/items/{productID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	productID, apiErr := int64URLParam(r, "productID")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	var req updateCartItemRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	ws.Cart.SetQuantity(productID, req.Quantity)
	writeJSON(w, http.StatusOK, toCartResponse(ws.Cart.Summary()))
}

// RemoveItem はカートから商品を削除する。カートにない商品の場合は何もしない。
// DELETE /api/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	productID, apiErr := int64URLParam(r, "productID")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	ws.Cart.Remove(productID)
	writeJSON(w, http.StatusOK, toCartResponse(ws.Cart.Summary()))
}
