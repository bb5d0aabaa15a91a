package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/sustainabite/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

const orderColumns = `id, user_id, subtotal, shipping_fee, total, item_count, delivery_date, delivery_note, status, created_at`

// Create は注文と明細を同一トランザクションで作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.UserID, order.Subtotal, order.ShippingFee, order.Total,
		order.ItemCount, order.DeliveryDate, order.DeliveryNote, string(order.Status), order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, position, product_id, name, unit, unit_price, quantity, line_total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, i, line.ProductID, line.Name, line.Unit, line.UnitPrice, line.Quantity, line.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByUser はユーザーの注文を作成日時の降順で返す。
func (r *PostgresOrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		lines, err := r.listLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

// FindByID はユーザーの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, userID, orderID string) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.listLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return o, nil
}

func (r *PostgresOrderRepo) listLines(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, unit, unit_price, quantity, line_total
		 FROM order_lines WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Unit, &l.UnitPrice, &l.Quantity, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}

	return lines, nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	o := &model.Order{}
	var status string
	err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.ShippingFee, &o.Total,
		&o.ItemCount, &o.DeliveryDate, &o.DeliveryNote, &status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	o.Status = model.OrderStatus(status)
	return o, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
