package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is the tenant boundary. Every user, product, sequence, register,
// sale and movement belongs to exactly one store. Created at registration,
// never deleted.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
