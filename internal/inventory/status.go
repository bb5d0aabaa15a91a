// Package inventory は在庫の状態判定と単一アイテム編集を提供する。
package inventory

import (
	"strings"

	"github.com/hitoshi/sustainabite/internal/model"
)

// Status は在庫の状態を表す。
type Status string

const (
	StatusEmpty Status = "empty"
	StatusLow   Status = "low"
	StatusOK    Status = "ok"
)

// Label は在庫表のバッジに表示する文言を返す。
func (s Status) Label() string {
	switch s {
	case StatusEmpty:
		return "หมด"
	case StatusLow:
		return "ใกล้หมด"
	default:
		return "ปกติ"
	}
}

// Classify は現在庫と最低在庫数から状態を判定する。
func Classify(current, minLevel float64) Status {
	switch {
	case current <= 0:
		return StatusEmpty
	case current < minLevel:
		return StatusLow
	default:
		return StatusOK
	}
}

// LowStock は最低在庫数を下回るアイテムを返す。在庫0のアイテムも含む。
func LowStock(items []model.InventoryItem) []model.LowStockItem {
	out := make([]model.LowStockItem, 0)
	for _, it := range items {
		if it.CurrentStock < it.MinLevel {
			out = append(out, model.LowStockItem{
				ID:           it.ID,
				Name:         it.Name,
				CurrentStock: it.CurrentStock,
				MinLevel:     it.MinLevel,
				Unit:         it.Unit,
			})
		}
	}
	return out
}

// Summary は在庫表の集計値。
type Summary struct {
	Total int
	Low   int // 在庫ありで最低在庫数未満
	Empty int
}

// Summarize は在庫アイテムの件数を状態別に集計する。
func Summarize(items []model.InventoryItem) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch Classify(it.CurrentStock, it.MinLevel) {
		case StatusEmpty:
			s.Empty++
		case StatusLow:
			s.Low++
		}
	}
	return s
}

// Search は名前またはカテゴリに検索語を含むアイテムを返す。
// 大文字小文字は区別しない。空の検索語は全件を返す。
func Search(items []model.InventoryItem, term string) []model.InventoryItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]model.InventoryItem(nil), items...)
	}

	out := make([]model.InventoryItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(it.Category), term) {
			out = append(out, it)
		}
	}
	return out
}
