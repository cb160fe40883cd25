package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingFee is charged once per non-empty cart.
var ShippingFee = decimal.RequireFromString("50.00")

type CartLine struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID uint64    `json:"customerId" gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	ProductID  uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity   int64     `json:"quantity" gorm:"not null;default:1"`
	AddedAt    time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

// LineTotal is quantity times the product's current unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	ItemCount   int64           `json:"itemCount"`
}

// ComputeTotals prices a cart: flat shipping applies only when the subtotal is positive.
// Lines must carry their Product.
func ComputeTotals(lines []CartLine) CartTotals {
	subtotal := decimal.Zero
	var count int64
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		count += l.Quantity
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = ShippingFee
	}

	return CartTotals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		GrandTotal:  subtotal.Add(shipping),
		ItemCount:   count,
	}
}

type CartView struct {
	Lines  []CartLine `json:"lines"`
	Totals CartTotals `json:"totals"`
}

type AdjustDirection int

const (
	Increase AdjustDirection = 1
	Decrease AdjustDirection = -1
)

// ParseAdjustDirection accepts the route actions "increase" and "decrease".
func ParseAdjustDirection(action string) (AdjustDirection, error) {
	switch action {
	case "increase":
		return Increase, nil
	case "decrease":
		return Decrease, nil
	}
	return 0, ErrInvalidInput
}
