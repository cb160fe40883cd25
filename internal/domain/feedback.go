package domain

import "time"

type Feedback struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID uint64    `json:"customerId" gorm:"not null;index"`
	SellerID   uint64    `json:"sellerId" gorm:"not null;index"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
