package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory = "General"
	CatalogPageSize = 30
	LatestLimit     = 12
)

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	SellerID    uint64          `json:"sellerId" gorm:"not null;index"`
	Name        string          `json:"name" gorm:"size:30;not null"`
	Description string          `json:"description" gorm:"size:100"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	UnitCost    decimal.Decimal `json:"unitCost" gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int64           `json:"stock" gorm:"not null"`
	Category    string          `json:"category" gorm:"size:50;not null;default:'General';index"`
	PhotoRef    string          `json:"photoRef" gorm:"size:255"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// ProductFilter narrows a catalog listing. Zero values disable a filter.
type ProductFilter struct {
	Query    string
	Category string
	MaxPrice *decimal.Decimal
	Page     int
	PageSize int
}

type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int64     `json:"total"`
}

// PageBounds clamps page into [1, totalPages]; an empty result still has one page.
func PageBounds(page, size int, total int64) (effective, totalPages int) {
	if size <= 0 {
		size = 1
	}
	totalPages = int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 1:
		page = 1
	case page > totalPages:
		page = totalPages
	}
	return page, totalPages
}
