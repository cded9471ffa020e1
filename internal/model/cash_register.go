package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister represents one open-to-close cash-handling session.
// At most one register per store may have IsOpen=true at any instant —
// enforced by a partial unique index on (store_id) WHERE is_open.
type CashRegister struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID       uuid.UUID        `gorm:"type:uuid;index;not null" json:"storeId"`
	Code          int              `gorm:"not null" json:"code"`
	InitialAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"initialAmount"`
	FinalAmount   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"finalAmount"`
	IsOpen        bool             `gorm:"not null;default:true" json:"isOpen"`
	OpenedByID    uuid.UUID        `gorm:"type:uuid;not null" json:"openedById"`
	ClosedByID    *uuid.UUID       `gorm:"type:uuid" json:"closedById"`
	OpenedAt      time.Time        `json:"openedAt"`
	ClosedAt      *time.Time       `json:"closedAt"`

	CashMovements []CashMovement `gorm:"foreignKey:CashRegisterID" json:"cashMovements,omitempty"`
}

// Movement types — sign is carried by the type, amounts are always positive.
const (
	MovementIn  = "entrada"
	MovementOut = "saida"
)

// CashMovement is an entry in the append-only register ledger. Entries are
// never updated or deleted; the one exception is the Superseded flag set by
// the sale amendment flow, which retires the old entry in favour of a
// replacement (the superseded row stays for audit).
type CashMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"storeId"`
	Code           int             `gorm:"not null" json:"code"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;index;not null" json:"cashRegisterId"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null" json:"userId"`
	Type           string          `gorm:"type:varchar(10);not null" json:"type"`
	Description    string          `gorm:"not null" json:"description"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentType    string          `gorm:"type:varchar(20);not null" json:"paymentType"`
	SaleID         *uuid.UUID      `gorm:"type:uuid;index" json:"saleId"`
	Superseded     bool            `gorm:"not null;default:false" json:"superseded"`
	CreatedAt      time.Time       `json:"createdAt"`
}
