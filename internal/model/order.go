// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus は注文の状態を表す。
type OrderStatus string

const (
	// OrderStatusPending は受付直後の状態。
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing は配送準備中の状態。
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusDelivered は配送済みの状態。
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled はキャンセル済みの状態。
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order は確定した注文のスナップショット。
// 作成後は変更しない。
type Order struct {
	ID           string
	UserID       string
	Lines        []OrderLine
	Subtotal     decimal.Decimal
	ShippingFee  decimal.Decimal
	Total        decimal.Decimal // Subtotal + ShippingFee
	ItemCount    int
	DeliveryDate time.Time
	DeliveryNote string
	Status       OrderStatus
	CreatedAt    time.Time
}

// OrderLine は注文時点で価格と数量を固定した明細行。
type OrderLine struct {
	ProductID int64
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// CreateOrderResult は注文作成の結果。
type CreateOrderResult struct {
	Success bool
	OrderID string
	Message string
}

// Delivery は次回配送の概要を表す。
type Delivery struct {
	ID         string
	Date       time.Time
	TimeWindow string
	Status     string
	ItemCount  int
}
