package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo reports whether a seller may move an order from s to next.
// Confirmed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == StatusPlaced && (next == StatusConfirmed || next == StatusCancelled)
}

type ShippingAddress struct {
	FirstName string `json:"firstName" gorm:"size:50"`
	LastName  string `json:"lastName" gorm:"size:50"`
	Address   string `json:"address" gorm:"size:255"`
	City      string `json:"city" gorm:"size:100"`
	State     string `json:"state" gorm:"size:100"`
	ZipCode   string `json:"zipCode" gorm:"size:10"`
	Email     string `json:"email" gorm:"size:254"`
	Phone     string `json:"phone" gorm:"size:20"`
}

type Order struct {
	ID         uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID uint64          `json:"customerId" gorm:"not null;index"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"size:20;not null;default:'placed'"`
	Shipping   ShippingAddress `json:"shipping" gorm:"embedded;embeddedPrefix:ship_"`
	Items      []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment    *Payment        `json:"payment,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"index"`
}

// OrderItem freezes the product's price, cost and ownership at checkout so later
// catalog edits or account deletions never change historical figures.
type OrderItem struct {
	ID                uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           uint64          `json:"orderId" gorm:"not null;index"`
	ProductID         uint64          `json:"productId" gorm:"not null;index"`
	SellerID          uint64          `json:"sellerId" gorm:"not null;index"`
	ProductName       string          `json:"productName" gorm:"size:30"`
	SellerName        string          `json:"sellerName" gorm:"size:30"`
	Quantity          int64           `json:"quantity" gorm:"not null"`
	UnitPriceSnapshot decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	UnitCostSnapshot  decimal.Decimal `json:"unitCost" gorm:"type:decimal(10,2);not null"`
}

type Payment struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"orderId" gorm:"not null;uniqueIndex"`
	CustomerID  uint64          `json:"customerId" gorm:"not null;index"`
	ExternalRef string          `json:"externalRef" gorm:"size:100"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type CheckoutRequest struct {
	Shipping   ShippingAddress
	PaymentRef string
}
