package model

import "github.com/google/uuid"

// Sequence entity types — the four document families that receive
// human-facing incrementing codes.
const (
	EntityProduct      = "product"
	EntityCashRegister = "cashRegister"
	EntityCashMovement = "cashMovement"
	EntitySale         = "sale"
)

// Sequence stores the last issued code per (store, entity) pair. It is only
// ever touched through the allocator's atomic upsert; business logic never
// reads it directly.
type Sequence struct {
	StoreID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Entity   string    `gorm:"type:varchar(20);primaryKey"`
	LastCode int       `gorm:"not null;default:0"`
}
