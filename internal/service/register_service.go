package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
	"github.com/artmorais77/backend-orise/internal/repository"
	"github.com/artmorais77/backend-orise/internal/scope"
)

type RegisterService interface {
	Open(ctx context.Context, sc scope.Scope, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error)
	Close(ctx context.Context, sc scope.Scope, registerID uuid.UUID) (*dto.RegisterResponse, error)
	// Current returns the store's open register with its movements, or nil.
	Current(ctx context.Context, sc scope.Scope) (*model.CashRegister, error)
	AddMovement(ctx context.Context, sc scope.Scope, req dto.ManualMovementRequest) (*model.CashMovement, error)
	List(ctx context.Context, sc scope.Scope, filter dto.RegisterFilter) (*dto.RegisterListResponse, error)
	Show(ctx context.Context, sc scope.Scope, registerID uuid.UUID) (*model.CashRegister, error)
}

type registerService struct {
	registers repository.RegisterRepository
	movements repository.MovementRepository
	sequences repository.SequenceRepository
}

func NewRegisterService(
	registers repository.RegisterRepository,
	movements repository.MovementRepository,
	sequences repository.SequenceRepository,
) RegisterService {
	return &registerService{registers: registers, movements: movements, sequences: sequences}
}

// Open creates a register session and its opening entrada movement in one
// transaction. The single-open-register invariant is pre-checked here and
// backstopped by a partial unique index on (store_id) WHERE is_open, so a
// concurrent open loses the race at commit time and is reported as the same
// conflict.
func (s *registerService) Open(ctx context.Context, sc scope.Scope, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if existing != nil {
		return nil, apierror.Conflict("Já existe um caixa aberto para esta loja")
	}

	regCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashRegister)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	movCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	register := &model.CashRegister{
		StoreID:       sc.StoreID,
		Code:          regCode,
		InitialAmount: req.InitialAmount,
		IsOpen:        true,
		OpenedByID:    sc.UserID,
		OpenedAt:      time.Now(),
	}
	var opening *model.CashMovement

	txErr := runTx(ctx, s.registers.DB(), func(tx *gorm.DB) error {
		if err := s.registers.CreateTx(tx, register); err != nil {
			return err
		}
		opening = &model.CashMovement{
			StoreID:        sc.StoreID,
			Code:           movCode,
			CashRegisterID: register.ID,
			UserID:         sc.UserID,
			Type:           model.MovementIn,
			Description:    "Abertura de caixa",
			Amount:         req.InitialAmount,
			PaymentType:    "dinheiro",
		}
		return s.movements.CreateTx(tx, opening)
	})
	if txErr != nil {
		if repository.IsUniqueViolation(txErr) {
			return nil, apierror.Conflict("Já existe um caixa aberto para esta loja")
		}
		return nil, apierror.Internal(txErr.Error())
	}

	return &dto.RegisterResponse{CashRegister: register, CashMovement: opening}, nil
}

// Close computes the final balance from the register's live movements and,
// in one transaction, flips the session closed and appends the closing saida
// movement. The sums run inside the transaction — no cached state.
func (s *registerService) Close(ctx context.Context, sc scope.Scope, registerID uuid.UUID) (*dto.RegisterResponse, error) {
	register, err := s.registers.FindByID(ctx, registerID)
	if err != nil || register.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Caixa inexistente")
	}
	if !register.IsOpen {
		return nil, apierror.Conflict("O caixa já está fechado")
	}

	movCode, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	var closing *model.CashMovement

	txErr := runTx(ctx, s.registers.DB(), func(tx *gorm.DB) error {
		totalIn, err := s.movements.SumByTypeTx(tx, registerID, model.MovementIn)
		if err != nil {
			return err
		}
		totalOut, err := s.movements.SumByTypeTx(tx, registerID, model.MovementOut)
		if err != nil {
			return err
		}
		finalAmount := totalIn.Sub(totalOut)

		now := time.Now()
		register.IsOpen = false
		register.FinalAmount = &finalAmount
		register.ClosedByID = &sc.UserID
		register.ClosedAt = &now
		if err := s.registers.CloseTx(tx, register); err != nil {
			return err
		}

		closing = &model.CashMovement{
			StoreID:        sc.StoreID,
			Code:           movCode,
			CashRegisterID: registerID,
			UserID:         sc.UserID,
			Type:           model.MovementOut,
			Description:    "Fechamento de caixa",
			Amount:         finalAmount,
			PaymentType:    "dinheiro",
		}
		return s.movements.CreateTx(tx, closing)
	})
	if txErr != nil {
		return nil, apierror.Internal(txErr.Error())
	}

	return &dto.RegisterResponse{CashRegister: register, CashMovement: closing}, nil
}

func (s *registerService) Current(ctx context.Context, sc scope.Scope) (*model.CashRegister, error) {
	register, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	return register, nil
}

// AddMovement appends a manual entrada/saida entry to the store's open
// register.
func (s *registerService) AddMovement(ctx context.Context, sc scope.Scope, req dto.ManualMovementRequest) (*model.CashMovement, error) {
	register, err := s.registers.FindOpenByStore(ctx, sc.StoreID)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if register == nil {
		return nil, apierror.Conflict("O caixa está fechado")
	}

	code, err := s.sequences.Next(ctx, sc.StoreID, model.EntityCashMovement)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	movement := &model.CashMovement{
		StoreID:        sc.StoreID,
		Code:           code,
		CashRegisterID: register.ID,
		UserID:         sc.UserID,
		Type:           req.Type,
		Description:    req.Description,
		Amount:         req.Amount,
		PaymentType:    req.PaymentType,
	}
	if err := s.movements.Create(ctx, movement); err != nil {
		return nil, apierror.Internal(err.Error())
	}
	return movement, nil
}

func (s *registerService) List(ctx context.Context, sc scope.Scope, filter dto.RegisterFilter) (*dto.RegisterListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	registers, total, err := s.registers.List(ctx, sc.StoreID, filter)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	return &dto.RegisterListResponse{
		Data: registers,
		Meta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *registerService) Show(ctx context.Context, sc scope.Scope, registerID uuid.UUID) (*model.CashRegister, error) {
	register, err := s.registers.FindByID(ctx, registerID)
	if err != nil || register.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Caixa inexistente")
	}
	return register, nil
}
