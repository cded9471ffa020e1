package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceRepository issues per-store, per-entity document codes.
// Codes are strictly increasing by 1 starting at 1. The increment is a single
// atomic upsert — never a read-then-write pair — so two concurrent callers on
// the same (store, entity) key always receive distinct consecutive codes.
//
// Allocation commits independently of the surrounding business transaction:
// when that transaction later rolls back, the issued code becomes a gap in
// the sequence. Gaps are accepted, not corrected.
type SequenceRepository interface {
	Next(ctx context.Context, storeID uuid.UUID, entity string) (int, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) Next(ctx context.Context, storeID uuid.UUID, entity string) (int, error) {
	var code int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (store_id, entity, last_code)
		VALUES (?, ?, 1)
		ON CONFLICT (store_id, entity)
		DO UPDATE SET last_code = sequences.last_code + 1
		RETURNING last_code`,
		storeID, entity,
	).Scan(&code).Error
	return code, err
}
