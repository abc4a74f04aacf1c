package handler

import (
	"errors"
	"net/http"

	"backoffice_backend/internal/suppliers/repository"
	"backoffice_backend/internal/suppliers/scoring"
	"backoffice_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgTenantRequired = "tenant context required"
)

type Handler struct {
	svc *scoring.Service
}

func New(svc *scoring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, batchLimiter gin.HandlerFunc) {
	rg.POST("/:id/score", h.ScoreSupplier)

	batch := rg.Group("/score")
	batch.Use(batchLimiter)
	batch.POST("/batch", h.ScoreBatch)
}

func tenantID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	tenant := id.TenantID()
	if tenant == nil {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return uuid.Nil, false
	}
	return *tenant, true
}

func (h *Handler) ScoreSupplier(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	score, err := h.svc.ScoreSupplier(c.Request.Context(), supplierID, tenant)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, score)
}

func (h *Handler) ScoreBatch(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	batch, err := h.svc.ScoreBatch(c.Request.Context(), tenant)
	if err != nil {
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, batch)
}
