package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SoldItem is one order item joined with the names needed for reporting.
type SoldItem struct {
	OrderID     uint64
	ProductID   uint64
	ProductName string
	SellerID    uint64
	SellerName  string
	Quantity    int64
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
}

type SalesFigures struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	UnitsSold int64           `json:"unitsSold"`
}

func (f *SalesFigures) Add(it SoldItem) {
	qty := decimal.NewFromInt(it.Quantity)
	f.Revenue = f.Revenue.Add(it.UnitPrice.Mul(qty))
	f.Cost = f.Cost.Add(it.UnitCost.Mul(qty))
	f.Profit = f.Revenue.Sub(f.Cost)
	f.UnitsSold += it.Quantity
}

type ProductSales struct {
	ProductID   uint64 `json:"productId"`
	ProductName string `json:"productName"`
	SellerName  string `json:"sellerName"`
	SalesFigures
}

type SellerSales struct {
	SellerID   uint64 `json:"sellerId"`
	SellerName string `json:"sellerName"`
	SalesFigures
}

type SalesWindow struct {
	Year  int
	Month time.Month
	From  time.Time
	To    time.Time
}

type SalesReport struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Totals    SalesFigures   `json:"totals"`
	ByProduct []ProductSales `json:"byProduct"`
	BySeller  []SellerSales  `json:"bySeller"`
}
