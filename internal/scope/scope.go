// Package scope carries the caller identity every core operation is bound to.
// Tenant isolation depends on this value being passed explicitly into the
// service layer — it is never read from ambient/global state.
package scope

import "github.com/google/uuid"

// Scope identifies the acting user and the store (tenant) all reads and
// writes must be filtered by.
type Scope struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
}
