package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/sustainabite/internal/model"
)

// PostgresInventoryRepo はPostgreSQLを使用した在庫リポジトリ。
type PostgresInventoryRepo struct {
	db *sql.DB
}

// NewPostgresInventoryRepo はPostgresInventoryRepoを生成する。
func NewPostgresInventoryRepo(db *sql.DB) *PostgresInventoryRepo {
	return &PostgresInventoryRepo{db: db}
}

const inventoryColumns = `id, user_id, name, category, current_stock, min_level, unit, image`

// ListByUser はユーザーの在庫アイテムをID昇順で返す。
func (r *PostgresInventoryRepo) ListByUser(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var it model.InventoryItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Category, &it.CurrentStock, &it.MinLevel, &it.Unit, &it.Image); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}

	return items, nil
}

// UpdateLevels は在庫数と最低在庫数を更新し、更新後のアイテムを返す。
// 他ユーザーのアイテムは更新できない。
func (r *PostgresInventoryRepo) UpdateLevels(ctx context.Context, update model.InventoryUpdate) (*model.InventoryItem, error) {
	it := &model.InventoryItem{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE inventory_items
		 SET current_stock = $3, min_level = $4, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+inventoryColumns,
		update.ID, update.UserID, update.CurrentStock, update.MinLevel,
	).Scan(&it.ID, &it.UserID, &it.Name, &it.Category, &it.CurrentStock, &it.MinLevel, &it.Unit, &it.Image)

	if err == sql.ErrNoRows {
		return nil, model.NewInventoryItemNotFoundError(update.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	return it, nil
}

// compile-time interface check
var _ InventoryRepository = (*PostgresInventoryRepo)(nil)
