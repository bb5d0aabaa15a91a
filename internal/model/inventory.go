// Package model はドメインモデルを定義する。
package model

// InventoryItem は店舗の在庫アイテムを表す。
// 在庫数はキログラム単位の端数を含むためfloat64で保持する。
type InventoryItem struct {
	ID           int64
	UserID       string
	Name         string
	Category     string
	CurrentStock float64
	MinLevel     float64
	Unit         string
	Image        string
}

// InventoryUpdate は在庫アイテムの数量更新要求。
type InventoryUpdate struct {
	ID           int64
	UserID       string
	CurrentStock float64
	MinLevel     float64
}

// LowStockItem はダッシュボードの在庫警告に表示する項目。
type LowStockItem struct {
	ID           int64
	Name         string
	CurrentStock float64
	MinLevel     float64
	Unit         string
}
