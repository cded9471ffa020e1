package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name     string          `json:"name"     validate:"required,min=2"`
	Category string          `json:"category" validate:"required,min=2"`
	Price    decimal.Decimal `json:"price"    validate:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name     string           `json:"name"     validate:"omitempty,min=2"`
	Category string           `json:"category" validate:"omitempty,min=2"`
	Price    *decimal.Decimal `json:"price"    validate:"omitempty"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Price    string `form:"price"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type ProductResponse struct {
	ID       string          `json:"id"`
	Code     int             `json:"code"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"isActive"`
}

type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}
