package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/middleware"
	"github.com/artmorais77/backend-orise/internal/service"
)

type SaleHandler struct{ svc service.SaleService }

func NewSaleHandler(svc service.SaleService) *SaleHandler { return &SaleHandler{svc: svc} }

// Create godoc
// @Summary Registra uma venda no caixa aberto
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SaleRequest true "Itens e forma de pagamento"
// @Success 201 {object} dto.SaleResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.SaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Amend godoc
// @Summary Substitui os itens de uma venda e ajusta o ledger do caixa
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param body body dto.SaleRequest true "Novos itens"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/{id} [put]
func (h *SaleHandler) Amend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.SaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Amend(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Cancela uma venda e lança a saída compensatória
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lista as vendas da loja (paginado, com filtros)
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SaleListResponse
// @Router /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Show godoc
// @Summary Busca uma venda pelo ID
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id} [get]
func (h *SaleHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Show(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
