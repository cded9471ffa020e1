package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/model"
)

// MovementRepository is the append-only cash ledger. There is no update or
// delete path except SupersedeTx, the single narrow exception used by sale
// amendment.
type MovementRepository interface {
	Create(ctx context.Context, m *model.CashMovement) error
	CreateTx(tx *gorm.DB, m *model.CashMovement) error
	ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.CashMovement, error)
	ListByRegisterAndType(ctx context.Context, registerID uuid.UUID, movType string) ([]model.CashMovement, error)
	// SumByTypeTx sums the live (non-superseded) movements of one type for a
	// register. Runs on the given tx so closing balances are a fresh read
	// inside the enclosing transaction.
	SumByTypeTx(tx *gorm.DB, registerID uuid.UUID, movType string) (decimal.Decimal, error)
	// FindLiveBySaleTx returns the sale's current (non-superseded) entrada
	// movement.
	FindLiveBySaleTx(tx *gorm.DB, saleID uuid.UUID) (*model.CashMovement, error)
	SupersedeTx(tx *gorm.DB, movementID uuid.UUID) error
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ?", registerID).
		Order("code ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movementRepo) ListByRegisterAndType(ctx context.Context, registerID uuid.UUID, movType string) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ? AND type = ?", registerID, movType).
		Order("code ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movementRepo) SumByTypeTx(tx *gorm.DB, registerID uuid.UUID, movType string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.Model(&model.CashMovement{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("cash_register_id = ? AND type = ? AND superseded = false", registerID, movType).
		Scan(&sum).Error
	return sum, err
}

func (r *movementRepo) FindLiveBySaleTx(tx *gorm.DB, saleID uuid.UUID) (*model.CashMovement, error) {
	var m model.CashMovement
	err := tx.Where("sale_id = ? AND type = ? AND superseded = false", saleID, model.MovementIn).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movementRepo) SupersedeTx(tx *gorm.DB, movementID uuid.UUID) error {
	return tx.Model(&model.CashMovement{}).
		Where("id = ?", movementID).
		Update("superseded", true).Error
}

// SumAmounts adds up a slice of ledger entries, skipping superseded rows.
// Decimal arithmetic throughout — never binary floating point.
func SumAmounts(movs []model.CashMovement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movs {
		if m.Superseded {
			continue
		}
		sum = sum.Add(m.Amount)
	}
	return sum
}
