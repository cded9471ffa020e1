package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
)

type RegisterRepository interface {
	CreateTx(tx *gorm.DB, r *model.CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	// FindOpenByStore returns (nil, nil) when the store has no open register.
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashRegister, error)
	CloseTx(tx *gorm.DB, r *model.CashRegister) error
	List(ctx context.Context, storeID uuid.UUID, filter dto.RegisterFilter) ([]model.CashRegister, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) CreateTx(tx *gorm.DB, reg *model.CashRegister) error {
	return tx.Create(reg).Error
}

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).
		Preload("CashMovements", func(db *gorm.DB) *gorm.DB { return db.Order("code ASC") }).
		First(&reg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).
		Preload("CashMovements", func(db *gorm.DB) *gorm.DB { return db.Order("code ASC") }).
		Where("store_id = ? AND is_open = true", storeID).
		First(&reg).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) CloseTx(tx *gorm.DB, reg *model.CashRegister) error {
	return tx.Model(&model.CashRegister{}).Where("id = ?", reg.ID).Updates(map[string]interface{}{
		"is_open":      false,
		"final_amount": reg.FinalAmount,
		"closed_by_id": reg.ClosedByID,
		"closed_at":    reg.ClosedAt,
	}).Error
}

func (r *registerRepo) List(ctx context.Context, storeID uuid.UUID, filter dto.RegisterFilter) ([]model.CashRegister, int64, error) {
	var registers []model.CashRegister
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashRegister{}).Where("store_id = ?", storeID)

	if filter.Code > 0 {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("opened_at >= ? AND opened_at <= ?", filter.StartDate, filter.EndDate+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("code DESC").Offset(offset).Limit(filter.Limit).Find(&registers).Error
	return registers, total, err
}
