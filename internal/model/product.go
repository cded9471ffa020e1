package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a store-scoped catalog item. Name is unique per store
// (case-insensitive). Deactivation is a soft toggle: historical sale items
// keep referencing a stable product identity.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"storeId"`
	Code      int             `gorm:"not null" json:"code"`
	Name      string          `gorm:"not null" json:"name"`
	Category  string          `gorm:"not null" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive  bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
