package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice_backend/internal/leads/repository"
	"backoffice_backend/internal/leads/scoring"
	"backoffice_backend/internal/leads/transport"
	"backoffice_backend/platform/httpkit"
	"backoffice_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgTenantRequired   = "tenant context required"
)

type Handler struct {
	svc *scoring.Service
	val *validator.Validator
}

func New(svc *scoring.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, batchLimiter gin.HandlerFunc) {
	rg.POST("/:id/score", h.ScoreLead)
	rg.GET("/ranked", h.Ranked)

	batch := rg.Group("/score")
	batch.Use(batchLimiter)
	batch.POST("/batch", h.ScoreBatch)
	batch.POST("/selection", h.ScoreSelection)
}

// tenantID resolves the caller's tenant from the JWT identity.
func tenantID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	tenant := id.TenantID()
	if tenant == nil {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return uuid.Nil, false
	}
	return *tenant, true
}

func (h *Handler) ScoreLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	score, err := h.svc.ScoreLead(c.Request.Context(), leadID, tenant)
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

func (h *Handler) ScoreSelection(c *gin.Context) {
	var req transport.ScoreSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	batch, err := h.svc.ScoreSelection(c.Request.Context(), tenant, req.LeadIDs)
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

	httpkit.OK(c, batch)
}

func (h *Handler) Ranked(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		limit = parsed
	}

	ranked, err := h.svc.Ranked(c.Request.Context(), tenant, limit)
	if err != nil {
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, ranked)
}
