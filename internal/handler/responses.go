package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/sustainabite/internal/cart"
	"github.com/hitoshi/sustainabite/internal/checkout"
	"github.com/hitoshi/sustainabite/internal/inventory"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
)

// 金額はdecimal.Decimalのまま返す。JSONでは文字列としてエンコードされる。

type userResponse struct {
	ID        string `json:"id"`
	StoreName string `json:"store_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		StoreName: u.StoreName,
		Email:     u.Email,
		Address:   u.Address,
		Phone:     u.Phone,
	}
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	CategoryID int64           `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Unit       string          `json:"unit"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	Discount   string          `json:"discount,omitempty"`
	Image      string          `json:"image"`
	InCart     int             `json:"in_cart"`
}

func toProductResponse(p model.Product, inCart int) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Price:      p.Price,
		Unit:       p.Unit,
		Stock:      p.Stock,
		MinStock:   p.MinStock,
		Discount:   p.Discount,
		Image:      p.Image,
		InCart:     inCart,
	}
}

type cartLineResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Unit      string          `json:"unit"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Lines       []cartLineResponse `json:"lines"`
	ItemCount   int                `json:"item_count"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	ShippingFee decimal.Decimal    `json:"shipping_fee"`
	Total       decimal.Decimal    `json:"total"`
}

func toCartResponse(s cart.Summary) cartResponse {
	lines := make([]cartLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Unit:      l.Unit,
			Image:     l.Image,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}
	return cartResponse{
		Lines:       lines,
		ItemCount:   s.ItemCount,
		Subtotal:    s.Subtotal,
		ShippingFee: s.ShippingFee,
		Total:       s.Total,
	}
}

type orderLineResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	ID           string              `json:"id"`
	Lines        []orderLineResponse `json:"lines"`
	ItemCount    int                 `json:"item_count"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	ShippingFee  decimal.Decimal     `json:"shipping_fee"`
	Total        decimal.Decimal     `json:"total"`
	DeliveryDate string              `json:"delivery_date"`
	DeliveryNote string              `json:"delivery_note"`
	Status       model.OrderStatus   `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

func toOrderResponse(o *model.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse(l))
	}
	resp := orderResponse{
		ID:           o.ID,
		Lines:        lines,
		ItemCount:    o.ItemCount,
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		Total:        o.Total,
		DeliveryNote: o.DeliveryNote,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
	if !o.DeliveryDate.IsZero() {
		resp.DeliveryDate = o.DeliveryDate.Format(checkout.DateLayout)
	}
	return resp
}

func toOrderResponses(orders []model.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

type lowStockResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CurrentStock float64 `json:"current_stock"`
	MinLevel     float64 `json:"min_level"`
	Unit         string  `json:"unit"`
}

type deliveryResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	TimeWindow string `json:"time_window"`
	Status     string `json:"status"`
	ItemCount  int    `json:"item_count"`
}

func toDeliveryResponse(d *model.Delivery) *deliveryResponse {
	if d == nil {
		return nil
	}
	return &deliveryResponse{
		ID:         d.ID,
		Date:       d.Date.Format(checkout.DateLayout),
		TimeWindow: d.TimeWindow,
		Status:     d.Status,
		ItemCount:  d.ItemCount,
	}
}

type inventoryItemResponse struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	CurrentStock float64          `json:"current_stock"`
	MinLevel     float64          `json:"min_level"`
	Unit         string           `json:"unit"`
	Image        string           `json:"image"`
	Status       inventory.Status `json:"status"`
	StatusLabel  string           `json:"status_label"`
}

func toInventoryItemResponse(it model.InventoryItem) inventoryItemResponse {
	status := inventory.Classify(it.CurrentStock, it.MinLevel)
	return inventoryItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		CurrentStock: it.CurrentStock,
		MinLevel:     it.MinLevel,
		Unit:         it.Unit,
		Image:        it.Image,
		Status:       status,
		StatusLabel:  status.Label(),
	}
}

type pendingEditResponse struct {
	ItemID       int64   `json:"item_id"`
	Name         string  `json:"name"`
	CurrentStock float64 `json:"current_stock"`
	MinLevel     float64 `json:"min_level"`
}

func toPendingEditResponse(p inventory.Pending) *pendingEditResponse {
	return &pendingEditResponse{
		ItemID:       p.ItemID,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
		MinLevel:     p.MinLevel,
	}
}

type inventorySummaryResponse struct {
	Total int `json:"total"`
	Low   int `json:"low"`
	Empty int `json:"empty"`
}

type inventoryResponse struct {
	Items   []inventoryItemResponse  `json:"items"`
	Summary inventorySummaryResponse `json:"summary"`
	Editing *pendingEditResponse     `json:"editing"`
}

type analyticsPointResponse struct {
	Period        string          `json:"period"`
	OrderCount    int             `json:"order_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

type savingsPointResponse struct {
	Category          string          `json:"category"`
	MarketPrice       decimal.Decimal `json:"market_price"`
	SustainaBitePrice decimal.Decimal `json:"sustainabite_price"`
	Savings           decimal.Decimal `json:"savings"`
}

type notificationResponse struct {
	ID        int64                 `json:"id"`
	Message   string                `json:"message"`
	Severity  notification.Severity `json:"severity"`
	CreatedAt time.Time             `json:"created_at"`
}

func toNotificationResponses(ns []notification.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse(n))
	}
	return out
}
