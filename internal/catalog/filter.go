// Package catalog は発注画面の商品絞り込みを提供する。
package catalog

import (
	"strings"

	"github.com/hitoshi/sustainabite/internal/model"
)

// Filter はカテゴリと商品名で商品を絞り込む。
// categoryIDが0の場合は全カテゴリを対象とする。
// queryは商品名に対する大文字小文字を区別しない部分一致。
func Filter(products []model.Product, categoryID int64, query string) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HighlightCategory は指定商品が属するカテゴリIDを返す。
// 商品一覧に存在しない場合は0を返す。
func HighlightCategory(products []model.Product, productID int64) int64 {
	for _, p := range products {
		if p.ID == productID {
			return p.CategoryID
		}
	}
	return 0
}
