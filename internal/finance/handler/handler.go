package handler

import (
	"net/http"

	"backoffice_backend/internal/finance/service"
	"backoffice_backend/internal/finance/transport"
	"backoffice_backend/platform/httpkit"
	"backoffice_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	categorizer *service.Categorizer
	val         *validator.Validator
}

func New(categorizer *service.Categorizer, val *validator.Validator) *Handler {
	return &Handler{categorizer: categorizer, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices/calculate", h.CalculateInvoice)
	rg.POST("/expenses/categorize", h.Categorize)
}

func (h *Handler) CalculateInvoice(c *gin.Context) {
	var req transport.InvoiceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, service.CalculateInvoice(req))
}

func (h *Handler) Categorize(c *gin.Context) {
	var req transport.CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.categorizer.Categorize(req.Description))
}
