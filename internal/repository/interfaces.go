// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/sustainabite/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.UserAccount, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// UpdateProfile は店舗名・メールアドレス・住所・電話番号を更新する。
	// ユーザーが存在しない場合はUSER_NOT_FOUNDのAPIErrorを返す。
	UpdateProfile(ctx context.Context, user *model.User) error
}

// InventoryRepository は在庫データの永続化インターフェース。
type InventoryRepository interface {
	// ListByUser はユーザーの在庫アイテムをID昇順で返す。
	ListByUser(ctx context.Context, userID string) ([]model.InventoryItem, error)

	// UpdateLevels は在庫数と最低在庫数を更新し、更新後のアイテムを返す。
	// 該当アイテムがない場合はINVENTORY_ITEM_NOT_FOUNDのAPIErrorを返す。
	UpdateLevels(ctx context.Context, update model.InventoryUpdate) (*model.InventoryItem, error)
}

// CatalogRepository は商品カタログの参照インターフェース。
type CatalogRepository interface {
	// ListCategories はカテゴリをID昇順で返す。
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListProducts は商品をID昇順で返す。
	ListProducts(ctx context.Context) ([]model.Product, error)

	// FindProduct は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindProduct(ctx context.Context, id int64) (*model.Product, error)
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// Create は注文を明細と共に保存する。
	Create(ctx context.Context, order *model.Order) error

	// ListByUser はユーザーの注文を作成日時の降順で返す。
	// limitが0以下の場合は全件を返す。
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Order, error)

	// FindByID はユーザーの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, userID, orderID string) (*model.Order, error)
}
