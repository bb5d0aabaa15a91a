package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/sustainabite/internal/model"
)

// PostgresCatalogRepo はPostgreSQLを使用した商品カタログリポジトリ。
type PostgresCatalogRepo struct {
	db *sql.DB
}

// NewPostgresCatalogRepo はPostgresCatalogRepoを生成する。
func NewPostgresCatalogRepo(db *sql.DB) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{db: db}
}

const productColumns = `id, name, category_id, price, unit, stock, min_stock, discount, image`

// ListCategories はカテゴリをID昇順で返す。
func (r *PostgresCatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// ListProducts は商品をID昇順で返す。
func (r *PostgresCatalogRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// FindProduct は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *PostgresCatalogRepo) FindProduct(ctx context.Context, id int64) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct は1行分の商品をスキャンする。priceはNUMERICをdecimalで受け取る。
func scanProduct(row rowScanner) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &p.Unit, &p.Stock, &p.MinStock, &p.Discount, &p.Image)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

// compile-time interface check
var _ CatalogRepository = (*PostgresCatalogRepo)(nil)
