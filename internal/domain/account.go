package domain

import "time"

type Customer struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"size:30;not null"`
	Username     string    `json:"username" gorm:"size:25;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Address      string    `json:"address" gorm:"size:60"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Age          int       `json:"age"`
	PhotoRef     string    `json:"photoRef" gorm:"size:255"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// CustomerProfile holds the customer fields that can change after registration.
type CustomerProfile struct {
	Name     string
	Address  string
	Phone    string
	PhotoRef string
}

// Seller accounts can log in and list products only once an admin approves them.
type Seller struct {
	ID                uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name              string    `json:"name" gorm:"size:30;not null"`
	Username          string    `json:"username" gorm:"size:25;not null;uniqueIndex"`
	PasswordHash      string    `json:"-" gorm:"size:128;not null"`
	Address           string    `json:"address" gorm:"size:60"`
	Email             string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Phone             string    `json:"phone" gorm:"size:20"`
	CollectiveDetails string    `json:"collectiveDetails" gorm:"size:90"`
	PassbookRef       string    `json:"passbookRef" gorm:"size:255"`
	IsApproved        bool      `json:"isApproved" gorm:"not null;default:false;index"`
	CreatedAt         time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
