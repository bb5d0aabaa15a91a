// Package dataset は組み込みのデモデータ（YAML）を読み込む。
// メモリリポジトリの初期値とPostgreSQLシードの元データとして使用する。
package dataset

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/hitoshi/sustainabite/internal/model"
)

//go:embed demo.yaml
var demoYAML []byte

// 日付のみの値のレイアウト
const dateLayout = "2006-01-02"

// Dataset はデモデータ一式。
type Dataset struct {
	Users        []model.UserAccount
	Categories   []model.Category
	Products     []model.Product
	Inventory    []model.InventoryItem
	Orders       []model.Order
	NextDelivery *model.Delivery
	Savings      []model.SavingsPoint
}

type rawDataset struct {
	Users []struct {
		ID        string `yaml:"id"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		StoreName string `yaml:"store_name"`
		Address   string `yaml:"address"`
		Phone     string `yaml:"phone"`
	} `yaml:"users"`
	Categories []struct {
		ID   int64  `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"categories"`
	Products []struct {
		ID         int64  `yaml:"id"`
		Name       string `yaml:"name"`
		CategoryID int64  `yaml:"category_id"`
		Price      string `yaml:"price"`
		Unit       string `yaml:"unit"`
		Stock      int    `yaml:"stock"`
		MinStock   int    `yaml:"min_stock"`
		Discount   string `yaml:"discount"`
		Image      string `yaml:"image"`
	} `yaml:"products"`
	Inventory []struct {
		ID           int64   `yaml:"id"`
		UserID       string  `yaml:"user_id"`
		Name         string  `yaml:"name"`
		Category     string  `yaml:"category"`
		CurrentStock float64 `yaml:"current_stock"`
		MinLevel     float64 `yaml:"min_level"`
		Unit         string  `yaml:"unit"`
		Image        string  `yaml:"image"`
	} `yaml:"inventory"`
	Orders []struct {
		ID           string `yaml:"id"`
		UserID       string `yaml:"user_id"`
		CreatedAt    string `yaml:"created_at"`
		DeliveryDate string `yaml:"delivery_date"`
		Status       string `yaml:"status"`
		ItemCount    int    `yaml:"item_count"`
		Subtotal     string `yaml:"subtotal"`
		ShippingFee  string `yaml:"shipping_fee"`
		Total        string `yaml:"total"`
		Lines        []struct {
			ProductID int64  `yaml:"product_id"`
			Name      string `yaml:"name"`
			Unit      string `yaml:"unit"`
			UnitPrice string `yaml:"unit_price"`
			Quantity  int    `yaml:"quantity"`
		} `yaml:"lines"`
	} `yaml:"orders"`
	NextDelivery *struct {
		ID         string `yaml:"id"`
		Date       string `yaml:"date"`
		TimeWindow string `yaml:"time_window"`
		Status     string `yaml:"status"`
		ItemCount  int    `yaml:"item_count"`
	} `yaml:"next_delivery"`
	Savings []struct {
		Category          string `yaml:"category"`
		MarketPrice       string `yaml:"market_price"`
		SustainaBitePrice string `yaml:"sustainabite_price"`
		Savings           string `yaml:"savings"`
	} `yaml:"savings"`
}

// Demo は組み込みのデモデータを返す。
// 呼び出しごとに新しいコピーを生成するため、呼び出し側で変更してよい。
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Parse はYAMLデータをDatasetに変換する。
// 金額は文字列で記述し、decimalとして厳密にパースする。
func Parse(data []byte) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset YAML: %w", err)
	}

	ds := &Dataset{}

	for _, u := range raw.Users {
		ds.Users = append(ds.Users, model.UserAccount{
			User: model.User{
				ID:        u.ID,
				Email:     u.Email,
				StoreName: u.StoreName,
				Address:   u.Address,
				Phone:     u.Phone,
			},
			Password: u.Password,
		})
	}

	for _, c := range raw.Categories {
		ds.Categories = append(ds.Categories, model.Category{ID: c.ID, Name: c.Name})
	}

	for _, p := range raw.Products {
		price, err := parseMoney("product price", p.Price)
		if err != nil {
			return nil, err
		}
		ds.Products = append(ds.Products, model.Product{
			ID:         p.ID,
			Name:       p.Name,
			CategoryID: p.CategoryID,
			Price:      price,
			Unit:       p.Unit,
			Stock:      p.Stock,
			MinStock:   p.MinStock,
			Discount:   p.Discount,
			Image:      p.Image,
		})
	}

	for _, it := range raw.Inventory {
		ds.Inventory = append(ds.Inventory, model.InventoryItem{
			ID:           it.ID,
			UserID:       it.UserID,
			Name:         it.Name,
			Category:     it.Category,
			CurrentStock: it.CurrentStock,
			MinLevel:     it.MinLevel,
			Unit:         it.Unit,
			Image:        it.Image,
		})
	}

	for _, o := range raw.Orders {
		order, err := convertOrder(o.ID, o.UserID, o.CreatedAt, o.DeliveryDate, o.Status, o.ItemCount, o.Subtotal, o.ShippingFee, o.Total)
		if err != nil {
			return nil, err
		}
		for _, l := range o.Lines {
			unitPrice, err := parseMoney("order line price", l.UnitPrice)
			if err != nil {
				return nil, err
			}
			order.Lines = append(order.Lines, model.OrderLine{
				ProductID: l.ProductID,
				Name:      l.Name,
				Unit:      l.Unit,
				UnitPrice: unitPrice,
				Quantity:  l.Quantity,
				LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
			})
		}
		ds.Orders = append(ds.Orders, *order)
	}

	if nd := raw.NextDelivery; nd != nil {
		date, err := time.Parse(dateLayout, nd.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse delivery date %q: %w", nd.Date, err)
		}
		ds.NextDelivery = &model.Delivery{
			ID:         nd.ID,
			Date:       date,
			TimeWindow: nd.TimeWindow,
			Status:     nd.Status,
			ItemCount:  nd.ItemCount,
		}
	}

	for _, s := range raw.Savings {
		market, err := parseMoney("market price", s.MarketPrice)
		if err != nil {
			return nil, err
		}
		ours, err := parseMoney("sustainabite price", s.SustainaBitePrice)
		if err != nil {
			return nil, err
		}
		savings, err := parseMoney("savings", s.Savings)
		if err != nil {
			return nil, err
		}
		ds.Savings = append(ds.Savings, model.SavingsPoint{
			Category:          s.Category,
			MarketPrice:       market,
			SustainaBitePrice: ours,
			Savings:           savings,
		})
	}

	return ds, nil
}

func convertOrder(id, userID, createdAt, deliveryDate, status string, itemCount int, subtotal, shipping, total string) (*model.Order, error) {
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order %s created_at: %w", id, err)
	}
	delivery, err := time.Parse(dateLayout, deliveryDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order %s delivery_date: %w", id, err)
	}
	sub, err := parseMoney("order subtotal", subtotal)
	if err != nil {
		return nil, err
	}
	fee, err := parseMoney("order shipping fee", shipping)
	if err != nil {
		return nil, err
	}
	tot, err := parseMoney("order total", total)
	if err != nil {
		return nil, err
	}
	return &model.Order{
		ID:           id,
		UserID:       userID,
		Subtotal:     sub,
		ShippingFee:  fee,
		Total:        tot,
		ItemCount:    itemCount,
		DeliveryDate: delivery,
		Status:       model.OrderStatus(status),
		CreatedAt:    created,
	}, nil
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}
