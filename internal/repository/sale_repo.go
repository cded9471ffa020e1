package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	DeleteItemsTx(tx *gorm.DB, saleID uuid.UUID) error
	CreateItemsTx(tx *gorm.DB, items []model.SaleItem) error
	UpdateTotalsTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal, paymentType string) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	List(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("SaleItems").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) DeleteItemsTx(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) CreateItemsTx(tx *gorm.DB, items []model.SaleItem) error {
	return tx.Create(&items).Error
}

func (r *saleRepo) UpdateTotalsTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal, paymentType string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total":        total,
		"payment_type": paymentType,
	}).Error
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) List(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("store_id = ?", storeID)

	if filter.Code > 0 {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Total != "" {
		q = q.Where("total = ?", filter.Total)
	}
	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("created_at >= ? AND created_at <= ?", filter.StartDate, filter.EndDate+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("SaleItems").
		Order("code DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}
