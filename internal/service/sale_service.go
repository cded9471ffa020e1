package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
	"github.com/artmorais77/backend-orise/internal/repository"
	"github.com/artmorais77/backend-orise/internal/scope"
	"github.com/artmorais77/backend-orise/internal/worker"
)

type SaleService interface {
	Create(ctx context.Context, sc scope.Scope, req dto.SaleRequest) (*dto.SaleResponse, error)
	Amend(ctx context.Context, sc scope.Scope, saleID uuid.UUID, req dto.SaleRequest) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, sc scope.Scope, saleID uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, sc scope.Scope, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Show(ctx context.Context, sc scope.Scope, saleID uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	registers  repository.RegisterRepository
	movements  repository.MovementRepository
	products   repository.ProductRepository
	sequences  repository.SequenceRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	registers repository.RegisterRepository,
	movements repository.MovementRepository,
	products repository.ProductRepository,
	sequences repository.SequenceRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		sales:      sales,
		registers:  registers,
		movements:  movements,
		products:   products,
		sequences:  sequences,
		dispatcher: dispatcher,
	}
}

// resolvedItem is a sale line with the product name and price snapshotted at
// resolution time.
type resolvedItem struct {
	productID uuid.UUID
	name      string
	price     decimal.Decimal
	quantity  int
	subtotal  decimal.Decimal
}

// resolveItems looks every product up fresh, rejects inactive or cross-store
// ones, and computes line subtotals with decimal arithmetic. Runs before any
// write so a rejected sale leaves no partial state.
func (s *saleService) resolveItems(ctx context.Context, sc scope.Scope, items []dto.SaleItemRequest) ([]resolvedItem, decimal.Decimal, error) {
	resolved := make([]resolvedItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, apierror.Validation("productId inválido")
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil || p.StoreID != sc.StoreID {
			return nil, decimal.Zero, apierror.NotFound("Produto inexistente")
		}
		if !p.IsActive {
			return nil, decimal.Zero, apierror.Validation("O produto selecionado está inativo")
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
			subtotal:  subtotal,
		})
	}
	return resolved, total, nil
}

// Create validates products and the open register, then writes the sale, its
// items, and the linked entrada movement in one transaction.
func (s *saleService) Create(ctx context.Context, sc scope.Scope, req dto.SaleRequest) (*dto.SaleResponse, error) {
	resolved, total, err := s.resolveItems(ctx, sc, req.Items)
	if err != nil {
		return nil, err
	}

	register, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if register == nil {
		return nil, apierror.Conflict("O caixa está fechado")
	}

	saleCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntitySale)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	movCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	sale := &model.Sale{
		StoreID:        sc.StoreID,
		Code:           saleCode,
		CashRegisterID: register.ID,
		UserID:         sc.UserID,
		Total:          total,
		PaymentType:    req.PaymentType,
		Status:         model.SaleCompleted,
		CreatedAt:      time.Now(),
	}
	for _, r := range resolved {
		sale.SaleItems = append(sale.SaleItems, model.SaleItem{
			StoreID:   sc.StoreID,
			ProductID: r.productID,
			Name:      r.name,
			Quantity:  r.quantity,
			Price:     r.price,
			Subtotal:  r.subtotal,
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return err
		}
		movement := &model.CashMovement{
			StoreID:        sc.StoreID,
			Code:           movCode,
			CashRegisterID: register.ID,
			UserID:         sc.UserID,
			Type:           model.MovementIn,
			Description:    fmt.Sprintf("Venda #%d", saleCode),
			Amount:         total,
			PaymentType:    req.PaymentType,
			SaleID:         &sale.ID,
		}
		return s.movements.CreateTx(tx, movement)
	})
	if txErr != nil {
		return nil, apierror.Internal(txErr.Error())
	}

	// Receipt job is best-effort — a queue failure never touches the sale.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil {
			payload.CustomerEmail = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	return saleToResponse(sale), nil
}

// Amend replaces a sale's items and total. The ledger is adjusted by
// superseding the sale's live entrada movement and appending a replacement
// entry — financial history is never mutated in place.
func (s *saleService) Amend(ctx context.Context, sc scope.Scope, saleID uuid.UUID, req dto.SaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil || sale.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Venda inexistente")
	}
	if sale.Status == model.SaleCanceled {
		return nil, apierror.Conflict("Não é possível editar uma venda que já foi cancelada")
	}

	// Confinement: the sale may only be touched while its own register is
	// still the store's open one.
	register, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if register == nil || register.ID != sale.CashRegisterID {
		return nil, apierror.Conflict("Esta venda só pode ser alterada no mesmo caixa em que foi registrada")
	}

	resolved, total, err := s.resolveItems(ctx, sc, req.Items)
	if err != nil {
		return nil, err
	}

	movCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	newItems := make([]model.SaleItem, 0, len(resolved))
	for _, r := range resolved {
		newItems = append(newItems, model.SaleItem{
			StoreID:   sc.StoreID,
			SaleID:    saleID,
			ProductID: r.productID,
			Name:      r.name,
			Quantity:  r.quantity,
			Price:     r.price,
			Subtotal:  r.subtotal,
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.DeleteItemsTx(tx, saleID); err != nil {
			return err
		}
		if err := s.sales.CreateItemsTx(tx, newItems); err != nil {
			return err
		}
		if err := s.sales.UpdateTotalsTx(tx, saleID, total, req.PaymentType); err != nil {
			return err
		}

		live, err := s.movements.FindLiveBySaleTx(tx, saleID)
		if err != nil {
			return err
		}
		if err := s.movements.SupersedeTx(tx, live.ID); err != nil {
			return err
		}
		replacement := &model.CashMovement{
			StoreID:        sc.StoreID,
			Code:           movCode,
			CashRegisterID: sale.CashRegisterID,
			UserID:         sc.UserID,
			Type:           model.MovementIn,
			Description:    fmt.Sprintf("Ajuste venda #%d", sale.Code),
			Amount:         total,
			PaymentType:    req.PaymentType,
			SaleID:         &saleID,
		}
		return s.movements.CreateTx(tx, replacement)
	})
	if txErr != nil {
		return nil, apierror.Internal(txErr.Error())
	}

	sale.Total = total
	sale.PaymentType = req.PaymentType
	sale.SaleItems = newItems
	return saleToResponse(sale), nil
}

// Cancel marks the sale canceled and appends a compensating saida movement.
// The original entrada movement is left untouched — cancellation is an audit
// trail, not an erasure.
func (s *saleService) Cancel(ctx context.Context, sc scope.Scope, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil || sale.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Venda inexistente")
	}
	if sale.Status == model.SaleCanceled {
		return nil, apierror.Conflict("Não é possível cancelar uma venda que já foi cancelada")
	}

	register, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if register == nil || register.ID != sale.CashRegisterID {
		return nil, apierror.Conflict("Esta venda só pode ser cancelada no mesmo caixa em que foi registrada")
	}

	movCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.UpdateStatusTx(tx, saleID, model.SaleCanceled); err != nil {
			return err
		}
		compensating := &model.CashMovement{
			StoreID:        sc.StoreID,
			Code:           movCode,
			CashRegisterID: sale.CashRegisterID,
			UserID:         sc.UserID,
			Type:           model.MovementOut,
			Description:    fmt.Sprintf("Cancelamento venda #%d", sale.Code),
			Amount:         sale.Total,
			PaymentType:    sale.PaymentType,
			SaleID:         &saleID,
		}
		return s.movements.CreateTx(tx, compensating)
	})
	if txErr != nil {
		return nil, apierror.Internal(txErr.Error())
	}

	sale.Status = model.SaleCanceled
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, sc scope.Scope, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	sales, total, err := s.sales.List(ctx, sc.StoreID, filter)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data: data,
		Meta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *saleService) Show(ctx context.Context, sc scope.Scope, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil || sale.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Venda inexistente")
	}
	return saleToResponse(sale), nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.SaleItems))
	for _, item := range s.SaleItems {
		items = append(items, dto.SaleItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:          s.ID.String(),
		Code:        s.Code,
		Total:       s.Total,
		PaymentType: s.PaymentType,
		Status:      s.Status,
		Items:       items,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}
