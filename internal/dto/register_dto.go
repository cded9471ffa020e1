package dto

import (
	"github.com/shopspring/decimal"

	"github.com/artmorais77/backend-orise/internal/model"
)

type OpenRegisterRequest struct {
	InitialAmount decimal.Decimal `json:"initialAmount" validate:"required,gt=0"`
}

type ManualMovementRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=entrada saida"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
	PaymentType string          `json:"paymentType" validate:"required,oneof=dinheiro cartao_credito cartao_debito pix"`
}

// RegisterFilter is bound from the query string of GET /v1/cash-registers.
type RegisterFilter struct {
	Code      int    `form:"code"`
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// RegisterResponse returns a register together with its movements; the model
// types already carry the JSON shape, so responses embed them directly.
type RegisterResponse struct {
	CashRegister *model.CashRegister `json:"cashRegister"`
	CashMovement *model.CashMovement `json:"cashMovement,omitempty"`
}

type RegisterListResponse struct {
	Data []model.CashRegister `json:"data"`
	Meta PageMeta             `json:"meta"`
}
