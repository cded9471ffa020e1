package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
}

type SaleRequest struct {
	PaymentType string            `json:"paymentType" validate:"required,oneof=dinheiro cartao_credito cartao_debito pix"`
	Items       []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Code      int    `form:"code"`
	Status    string `form:"status" validate:"omitempty,oneof=completed canceled all"`
	Total     string `form:"total"`
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID          string             `json:"id"`
	Code        int                `json:"code"`
	Total       decimal.Decimal    `json:"total"`
	PaymentType string             `json:"paymentType"`
	Status      string             `json:"status"`
	Items       []SaleItemResponse `json:"items"`
	CreatedAt   string             `json:"createdAt"`
}

type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}
