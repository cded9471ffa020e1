package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SaleCompleted = "completed"
	SaleCanceled  = "canceled"
)

// Sale is a store-scoped sales document. CashRegisterID is fixed at creation:
// a sale may only be amended or canceled while that register is still the
// store's open one.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"storeId"`
	Code           int             `gorm:"not null" json:"code"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;index;not null" json:"cashRegisterId"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null" json:"userId"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentType    string          `gorm:"type:varchar(20);not null" json:"paymentType"`
	Status         string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	SaleItems []SaleItem `gorm:"foreignKey:SaleID" json:"saleItems,omitempty"`
}

// SaleItem is a sale line. Name and Price are snapshots taken at sale time,
// not live references to the catalog — later price changes never rewrite a
// sale.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null" json:"storeId"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"saleId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	Name      string          `gorm:"not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"createdAt"`
}
