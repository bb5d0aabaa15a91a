// Package cart はセッションごとのショッピングカートを提供する。
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/sustainabite/internal/model"
)

// Line はカートの明細行。商品IDごとに1行のみ存在する。
type Line struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Unit      string
	Image     string
	Quantity  int
}

// LineTotal は行合計（単価×数量）を返す。
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Pricing は送料の計算規則。
type Pricing struct {
	// FreeShippingThreshold を小計が超えると送料が無料になる（同額は有料）。
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultPricing は1000バーツ超で送料無料、それ以外は50バーツ。
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(1000),
		ShippingFee:           decimal.NewFromInt(50),
	}
}

// ShippingFor は小計に対する送料を返す。
func (p Pricing) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFee
}

// Summary はカートの金額集計。
type Summary struct {
	Lines       []Line
	ItemCount   int
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// Cart は追加順を保持する明細行の集合。
// 同一商品の追加は既存行の数量に加算する。
type Cart struct {
	mu      sync.Mutex
	pricing Pricing
	lines   []Line
}

// New は空のCartを生成する。
func New(pricing Pricing) *Cart {
	return &Cart{pricing: pricing}
}

// Add は商品を数量分追加する。既に行があれば数量を加算する。
// quantityが1未満の場合は1として扱う。在庫数による上限は設けない。
func (c *Cart) Add(product model.Product, quantity int) Line {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return c.lines[i]
	}

	line := Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Unit:      product.Unit,
		Image:     product.Image,
		Quantity:  quantity,
	}
	c.lines = append(c.lines, line)
	return line
}

// Remove は商品の行を削除する。存在しない場合は何もしない。
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// SetQuantity は行の数量を上書きする。0以下の場合は行を削除する。
// 行が存在しない場合は何もせずfalseを返す。
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.removeLocked(productID)
		return true
	}
	c.lines[i].Quantity = quantity
	return true
}

// Lines は明細行のコピーを追加順で返す。
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Len は行数を返す。
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// IsEmpty はカートが空かどうかを返す。
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Contains は商品の行が存在するかを返す。
func (c *Cart) Contains(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(productID) >= 0
}

// Quantity は商品の数量を返す。行がない場合は0。
func (c *Cart) Quantity(productID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Clear は全ての行を削除する。
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// RemoveLines は注文済み明細の商品行を数量に関係なく削除する。
// 注文処理中に同じ商品へ加算された数量も残らない。
func (c *Cart) RemoveLines(ordered []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range ordered {
		c.removeLocked(o.ProductID)
	}
}

// Subtotal は単価×数量の合計を返す。
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotalOf(c.lines)
}

// ShippingFee は現在の小計に対する送料を返す。
func (c *Cart) ShippingFee() decimal.Decimal {
	return c.pricing.ShippingFor(c.Subtotal())
}

// Total は小計と送料の合計を返す。
func (c *Cart) Total() decimal.Decimal {
	sub := c.Subtotal()
	return sub.Add(c.pricing.ShippingFor(sub))
}

// Summary は明細と金額を同一時点のスナップショットとして返す。
func (c *Cart) Summary() Summary {
	c.mu.Lock()
	lines := append([]Line(nil), c.lines...)
	c.mu.Unlock()

	return Summarize(lines, c.pricing)
}

// Summarize は任意の明細行から金額集計を作る。
// チェックアウト時のスナップショット計算にも使用する。
func Summarize(lines []Line, pricing Pricing) Summary {
	sub := subtotalOf(lines)
	fee := pricing.ShippingFor(sub)

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}

	return Summary{
		Lines:       lines,
		ItemCount:   count,
		Subtotal:    sub,
		ShippingFee: fee,
		Total:       sub.Add(fee),
	}
}

func subtotalOf(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeLocked(productID int64) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
