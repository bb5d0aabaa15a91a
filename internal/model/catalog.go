// Package model はドメインモデルを定義する。
package model

import "github.com/shopspring/decimal"

// Category は商品カテゴリを表す。
type Category struct {
	ID   int64
	Name string
}

// Product は発注可能な商品を表す。
type Product struct {
	ID         int64
	Name       string
	CategoryID int64
	Price      decimal.Decimal // 単価（バーツ）
	Unit       string
	Stock      int
	MinStock   int
	Discount   string // 表示用の割引ラベル。空の場合は割引なし
	Image      string
}
