package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/sustainabite/internal/catalog"
	"github.com/hitoshi/sustainabite/internal/model"
)

// CatalogService は発注画面が必要とするデータサービスのインターフェース。
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// CatalogHandler はカテゴリ・商品一覧のHTTPハンドラー。
type CatalogHandler struct {
	service    CatalogService
	workspaces WorkspaceProvider
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogService, workspaces WorkspaceProvider) *CatalogHandler {
	return &CatalogHandler{
		service:    service,
		workspaces: workspaces,
	}
}

// ListCategories はカテゴリ一覧を返す。
// GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

type productListResponse struct {
	SelectedCategory int64             `json:"selected_category"`
	Products         []productResponse `json:"products"`
}

// ListProducts はカテゴリと商品名で絞り込んだ商品一覧を返す。
// category=0または未指定は全カテゴリ。productを指定するとその商品のカテゴリを選択状態にする。
// 各商品にはカート内の数量を付与する。
// GET /api/products?category=&q=&product=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	query := r.URL.Query()
	categoryID, err := parseOptionalID(query.Get("category"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("category"))
		return
	}
	highlightID, err := parseOptionalID(query.Get("product"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("product"))
		return
	}

	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if categoryID == 0 && highlightID != 0 {
		categoryID = catalog.HighlightCategory(products, highlightID)
	}

	filtered := catalog.Filter(products, categoryID, query.Get("q"))
	resp := productListResponse{
		SelectedCategory: categoryID,
		Products:         make([]productResponse, 0, len(filtered)),
	}
	for _, p := range filtered {
		resp.Products = append(resp.Products, toProductResponse(p, ws.Cart.Quantity(p.ID)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseOptionalID は空文字列を0として整数IDを読み取る。
func parseOptionalID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
