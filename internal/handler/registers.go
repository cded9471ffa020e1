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

type RegisterHandler struct{ svc service.RegisterService }

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// Open godoc
// @Summary Abre um novo caixa para a loja
// @Tags cash-registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenRegisterRequest true "Valor de abertura"
// @Success 201 {object} dto.RegisterResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-registers/open [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Fecha o caixa e registra o movimento de fechamento
// @Tags cash-registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-registers/{id}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Current godoc
// @Summary Retorna o caixa aberto da loja, se houver
// @Tags cash-registers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-registers/current [get]
func (h *RegisterHandler) Current(c *gin.Context) {
	register, err := h.svc.Current(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if register == nil {
		c.JSON(http.StatusNotFound, apierror.New("Nenhum caixa aberto"))
		return
	}
	c.JSON(http.StatusOK, dto.RegisterResponse{CashRegister: register})
}

// AddMovement godoc
// @Summary Registra uma entrada ou saída manual no caixa aberto
// @Tags cash-registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ManualMovementRequest true "Movimento manual"
// @Success 201 {object} model.CashMovement
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-registers/movements [post]
func (h *RegisterHandler) AddMovement(c *gin.Context) {
	var req dto.ManualMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	movement, err := h.svc.AddMovement(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// List godoc
// @Summary Lista os caixas da loja (paginado)
// @Tags cash-registers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.RegisterListResponse
// @Router /v1/cash-registers [get]
func (h *RegisterHandler) List(c *gin.Context) {
	var filter dto.RegisterFilter
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
// @Summary Busca um caixa pelo ID, com seus movimentos
// @Tags cash-registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-registers/{id} [get]
func (h *RegisterHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	register, err := h.svc.Show(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RegisterResponse{CashRegister: register})
}
