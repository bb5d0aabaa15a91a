package dataset

import (
	"testing"

	"github.com/shopspring/decimal"
)

// 組み込みデモデータが読み込めることを検証
func TestDemo_Loads(t *testing.T) {
	ds, err := Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(ds.Users))
	}
	if ds.Users[0].Email != "demo@sustainabite.com" {
		t.Errorf("Email = %q", ds.Users[0].Email)
	}
	if ds.Users[0].StoreName != "ร้านอาหารสุขภาพดี" {
		t.Errorf("StoreName = %q", ds.Users[0].StoreName)
	}
	if len(ds.Categories) != 5 {
		t.Errorf("expected 5 categories, got %d", len(ds.Categories))
	}
	if len(ds.Products) != 10 {
		t.Errorf("expected 10 products, got %d", len(ds.Products))
	}
	if len(ds.Inventory) != 10 {
		t.Errorf("expected 10 inventory items, got %d", len(ds.Inventory))
	}
	if len(ds.Orders) != 4 {
		t.Errorf("expected 4 orders, got %d", len(ds.Orders))
	}
	if len(ds.Savings) != 5 {
		t.Errorf("expected 5 savings rows, got %d", len(ds.Savings))
	}
	if ds.NextDelivery == nil || ds.NextDelivery.ID != "d1" {
		t.Fatalf("unexpected next delivery: %+v", ds.NextDelivery)
	}
	if got := ds.NextDelivery.Date.Format("2006-01-02"); got != "2025-03-27" {
		t.Errorf("NextDelivery.Date = %s", got)
	}
}

// 端数を含む在庫数がそのまま読み込まれることを検証
func TestDemo_InventoryFractions(t *testing.T) {
	ds, err := Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, it := range ds.Inventory {
		if it.ID == 6 && it.CurrentStock != 0.5 {
			t.Errorf("item 6 CurrentStock = %v, want 0.5", it.CurrentStock)
		}
		if it.ID == 8 && it.CurrentStock != 0 {
			t.Errorf("item 8 CurrentStock = %v, want 0", it.CurrentStock)
		}
	}
}

// 注文明細の行合計が単価×数量で計算されることを検証
func TestDemo_OrderLineTotals(t *testing.T) {
	ds, err := Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := ds.Orders[0]
	if first.ID != "ORD-2023-001" {
		t.Fatalf("first order = %s", first.ID)
	}
	if !first.Total.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("Total = %s", first.Total)
	}
	if !first.Lines[0].LineTotal.Equal(decimal.NewFromInt(300)) {
		t.Errorf("LineTotal = %s, want 300", first.Lines[0].LineTotal)
	}
	for _, o := range ds.Orders {
		if !o.Subtotal.Add(o.ShippingFee).Equal(o.Total) {
			t.Errorf("order %s: subtotal %s + shipping %s != total %s", o.ID, o.Subtotal, o.ShippingFee, o.Total)
		}
	}
}

// 不正な金額文字列でエラーになることを検証
func TestParse_InvalidMoney(t *testing.T) {
	data := []byte(`
products:
  - { id: 1, name: x, category_id: 1, price: "abc", unit: กก. }
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for invalid price")
	}
}

// 不正なYAMLでエラーになることを検証
func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("users: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

// Demoが呼び出しごとに独立したコピーを返すことを検証
func TestDemo_ReturnsIndependentCopies(t *testing.T) {
	a, err := Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Inventory[0].CurrentStock = 999

	b, err := Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Inventory[0].CurrentStock == 999 {
		t.Error("expected independent copy")
	}
}
