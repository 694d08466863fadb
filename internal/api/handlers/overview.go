package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hengshuofushi123/greenledger/internal/api/models"
	"github.com/hengshuofushi123/greenledger/internal/overview"
)

// OverviewHandler serves the materialized dashboard overview.
type OverviewHandler struct {
	cache *overview.Manager
}

// NewOverviewHandler creates an overview handler.
func NewOverviewHandler(cache *overview.Manager) *OverviewHandler {
	return &OverviewHandler{cache: cache}
}

// Get handles GET /api/v1/overview
//
// Never blocks on recomputation: a stale payload is served as-is with
// fresh=false while a refresh runs in the background. Before the very first
// computation finishes there is nothing to serve yet, hence 202.
func (h *OverviewHandler) Get(c *gin.Context) {
	payload, fresh := h.cache.Get(c.Request.Context())
	if payload == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "computing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fresh": fresh, "data": payload})
}

// Refresh handles POST /api/v1/overview/refresh
func (h *OverviewHandler) Refresh(c *gin.Context) {
	err := h.cache.ForceRefresh(c.Request.Context())
	switch {
	case errors.Is(err, overview.ErrRecomputeInFlight):
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh_in_progress"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "REFRESH_FAILED", Message: err.Error()},
		})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
	}
}

// CacheInfo handles GET /api/v1/overview/cache
func (h *OverviewHandler) CacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.State())
}
