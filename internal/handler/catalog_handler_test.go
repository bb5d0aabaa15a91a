package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/sustainabite/internal/model"
)

func newTestCatalogService() *mockDataService {
	return &mockDataService{
		listCategoriesFn: func(context.Context) ([]model.Category, error) {
			return []model.Category{{ID: 1, Name: "ผักและผลไม้"}, {ID: 2, Name: "เนื้อสัตว์"}}, nil
		},
		listProductsFn: func(context.Context) ([]model.Product, error) {
			return []model.Product{
				{ID: 1, Name: "Organic Lettuce", CategoryID: 1, Price: decimal.NewFromInt(60), Unit: "กก."},
				{ID: 2, Name: "Cherry Tomato", CategoryID: 1, Price: decimal.NewFromInt(90), Unit: "กก."},
				{ID: 3, Name: "Chicken Breast", CategoryID: 2, Price: decimal.NewFromInt(120), Unit: "กก."},
			}, nil
		},
	}
}

func listProducts(t *testing.T, h *CatalogHandler, query string) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	h.ListProducts(w, withSession(httptest.NewRequest(http.MethodGet, "/api/products"+query, nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	return decodeBody(t, w)
}

func TestCatalogHandler_ListCategories(t *testing.T) {
	h := NewCatalogHandler(newTestCatalogService(), newTestRegistry())

	w := httptest.NewRecorder()
	h.ListCategories(w, withSession(httptest.NewRequest(http.MethodGet, "/api/categories", nil)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"name":"ผักและผลไม้"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCatalogHandler_ListProducts_Filters(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantCount    int
		wantCategory float64
	}{
		{"全件", "", 3, 0},
		{"カテゴリ指定", "?category=1", 2, 1},
		{"商品名検索", "?q=tomato", 1, 0},
		{"カテゴリと検索", "?category=2&q=tomato", 0, 2},
		{"商品からカテゴリを選択", "?product=3", 1, 2},
		{"存在しない商品", "?product=99", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCatalogHandler(newTestCatalogService(), newTestRegistry())

			body := listProducts(t, h, tt.query)

			if products := body["products"].([]interface{}); len(products) != tt.wantCount {
				t.Errorf("products = %d, want %d", len(products), tt.wantCount)
			}
			if body["selected_category"] != tt.wantCategory {
				t.Errorf("selected_category = %v, want %v", body["selected_category"], tt.wantCategory)
			}
		})
	}
}

func TestCatalogHandler_ListProducts_InCart(t *testing.T) {
	reg := newTestRegistry()
	reg.GetOrCreate(testSessionID, testUserID).Cart.Add(model.Product{ID: 2, Name: "Cherry Tomato", Price: decimal.NewFromInt(90)}, 3)
	h := NewCatalogHandler(newTestCatalogService(), reg)

	body := listProducts(t, h, "?category=1")

	for _, raw := range body["products"].([]interface{}) {
		p := raw.(map[string]interface{})
		want := float64(0)
		if p["id"] == float64(2) {
			want = 3
		}
		if p["in_cart"] != want {
			t.Errorf("product %v in_cart = %v, want %v", p["id"], p["in_cart"], want)
		}
	}
}

func TestCatalogHandler_ListProducts_InvalidCategory(t *testing.T) {
	h := NewCatalogHandler(newTestCatalogService(), newTestRegistry())

	w := httptest.NewRecorder()
	h.ListProducts(w, withSession(httptest.NewRequest(http.MethodGet, "/api/products?category=abc", nil)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
