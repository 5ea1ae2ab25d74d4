// Package cart holds the per-session shopping cart and its storage backends.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the units of one product in a cart.
const MaxQuantity = 10000

var ErrQuantityLimit = errors.New("quantity limit exceeded")

type Line struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

func (l *Line) recompute() {
	l.Total = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Cart is an ordered list of lines keyed by ProductID. A Cart is loaded from a
// Store for one request and is not safe for concurrent use.
type Cart struct {
	Owner string `json:"owner"`
	Lines []Line `json:"lines"`
}

func New(owner string) *Cart {
	return &Cart{Owner: owner, Lines: []Line{}}
}

func (c *Cart) find(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine merges qty into an existing line for productID or appends a new
// line priced at price. The snapshot price of an existing line is kept. A line
// never holds more than MaxQuantity units; the cart is unchanged on error.
func (c *Cart) AddLine(productID, name string, qty int, price decimal.Decimal) error {
	if qty <= 0 {
		return nil
	}
	if qty > MaxQuantity {
		return ErrQuantityLimit
	}
	if i := c.find(productID); i >= 0 {
		if qty > MaxQuantity-c.Lines[i].Quantity {
			return ErrQuantityLimit
		}
		c.Lines[i].Quantity += qty
		c.Lines[i].recompute()
		return nil
	}
	l := Line{ProductID: productID, ProductName: name, Quantity: qty, Price: price}
	l.recompute()
	c.Lines = append(c.Lines, l)
	return nil
}

// UpdateLine sets the quantity of productID; qty <= 0 removes the line and
// qty above MaxQuantity is clamped. It reports whether the line existed.
func (c *Cart) UpdateLine(productID string, qty int) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	qty = min(qty, MaxQuantity)
	if qty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	}
	c.Lines[i].Quantity = qty
	c.Lines[i].recompute()
	return true
}

func (c *Cart) RemoveLine(productID string) bool {
	return c.UpdateLine(productID, 0)
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Total)
	}
	return sum.Round(2)
}

// Size is the number of distinct lines.
func (c *Cart) Size() int {
	return len(c.Lines)
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
