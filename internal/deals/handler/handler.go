package handler

import (
	"errors"
	"net/http"

	"backoffice_backend/internal/deals/health"
	"backoffice_backend/internal/deals/repository"
	"backoffice_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgTenantRequired = "tenant context required"
)

type Handler struct {
	svc *health.Service
}

func New(svc *health.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, batchLimiter gin.HandlerFunc) {
	rg.POST("/:id/health", h.EvaluateHealth)
	rg.GET("/at-risk", h.AtRisk)

	batch := rg.Group("")
	batch.Use(batchLimiter)
	batch.POST("/velocity/batch", h.VelocityBatch)
	batch.POST("/health/batch", h.HealthBatch)
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

func (h *Handler) EvaluateHealth(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.EvaluateHealth(c.Request.Context(), dealID, tenant)
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

	httpkit.OK(c, result)
}

func (h *Handler) VelocityBatch(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	report, err := h.svc.VelocityBatch(c.Request.Context(), tenant)
	if err != nil {
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, report)
}

func (h *Handler) HealthBatch(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	results, batchErrors, err := h.svc.HealthBatch(c.Request.Context(), tenant)
	if err != nil {
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, gin.H{"results": results, "errors": batchErrors})
}

func (h *Handler) AtRisk(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	atRisk, err := h.svc.AtRisk(c.Request.Context(), tenant)
	if err != nil {
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, atRisk)
}
