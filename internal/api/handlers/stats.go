package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hengshuofushi123/greenledger/internal/api/models"
	"github.com/hengshuofushi123/greenledger/internal/instrumentation"
	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/stats"
)

// ProjectLister resolves a project scope to concrete projects.
type ProjectLister interface {
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
}

// StatsHandler serves the three rollup endpoints.
type StatsHandler struct {
	projects ProjectLister
	engine   *stats.Engine
	metrics  *instrumentation.Metrics

	// now is replaceable in tests; it anchors the default window bounds.
	now func() time.Time
}

// NewStatsHandler creates a stats handler. metrics may be nil.
func NewStatsHandler(projects ProjectLister, engine *stats.Engine, metrics *instrumentation.Metrics) *StatsHandler {
	return &StatsHandler{projects: projects, engine: engine, metrics: metrics, now: time.Now}
}

// Dimensions handles POST /api/v1/stats/dimensions
func (h *StatsHandler) Dimensions(c *gin.Context) {
	var req models.DimensionStatsRequest
	if !bindStats(c, &req, &req.WindowScope) {
		return
	}
	dimension := model.Dimension(req.Dimension)
	if !dimension.Valid() {
		badRequest(c, "UNKNOWN_DIMENSION", "unsupported dimension: "+req.Dimension)
		return
	}
	projects, ok := h.resolve(c, req.ProjectScope)
	if !ok {
		return
	}

	rows, err := h.engine.DimensionRollup(c.Request.Context(), stats.DimensionQuery{
		Dimension:   dimension,
		Projects:    projects,
		Production:  req.ProductionWindow(h.now()),
		Transaction: req.TransactionWindow(h.now()),
	})
	if err != nil {
		queryFailed(c, err)
		return
	}
	h.record("dimensions")

	out := make([]models.DimensionRow, len(rows))
	for i, r := range rows {
		out[i] = models.DimensionRow{
			Value:             r.Value,
			Issued:            r.Issued,
			PlatformSold:      r.PlatformSold,
			RegistrySold:      r.RegistrySold,
			PlatformSoldRatio: r.PlatformSoldRatio,
			RegistrySoldRatio: r.RegistrySoldRatio,
			AvgPrice:          r.AvgPrice,
		}
	}
	c.JSON(http.StatusOK, models.DimensionStatsResponse{Dimension: req.Dimension, Rows: out})
}

// ProductionPeriods handles POST /api/v1/stats/production-periods
func (h *StatsHandler) ProductionPeriods(c *gin.Context) {
	var req models.PeriodStatsRequest
	if !bindStats(c, &req, &req.WindowScope) {
		return
	}
	projects, ok := h.resolve(c, req.ProjectScope)
	if !ok {
		return
	}

	rows, err := h.engine.ProductionPeriodRollup(c.Request.Context(), stats.PeriodQuery{
		Projects:    projects,
		Production:  req.ProductionWindow(h.now()),
		Transaction: req.TransactionWindow(h.now()),
	})
	if err != nil {
		queryFailed(c, err)
		return
	}
	h.record("production_periods")

	out := make([]models.ProductionPeriodRow, len(rows))
	for i, r := range rows {
		out[i] = models.ProductionPeriodRow{
			Period:         r.Period,
			IssuedOrdinary: r.IssuedOrdinary,
			IssuedGreen:    r.IssuedGreen,
			RegistrySold:   r.RegistrySold,
			Venues:         venueBreakdowns(r.Venues),
		}
	}
	c.JSON(http.StatusOK, models.ProductionStatsResponse{Rows: out})
}

// TransactionPeriods handles POST /api/v1/stats/transaction-periods
func (h *StatsHandler) TransactionPeriods(c *gin.Context) {
	var req models.PeriodStatsRequest
	if !bindStats(c, &req, &req.WindowScope) {
		return
	}
	projects, ok := h.resolve(c, req.ProjectScope)
	if !ok {
		return
	}

	rows, err := h.engine.TransactionPeriodRollup(c.Request.Context(), stats.PeriodQuery{
		Projects:    projects,
		Production:  req.ProductionWindow(h.now()),
		Transaction: req.TransactionWindow(h.now()),
	})
	if err != nil {
		queryFailed(c, err)
		return
	}
	h.record("transaction_periods")

	out := make([]models.TransactionPeriodRow, len(rows))
	for i, r := range rows {
		out[i] = models.TransactionPeriodRow{
			Month:  r.Month,
			Venues: venueBreakdowns(r.Venues),
		}
	}
	c.JSON(http.StatusOK, models.TransactionStatsResponse{Rows: out})
}

func (h *StatsHandler) resolve(c *gin.Context, scope models.ProjectScope) ([]model.Project, bool) {
	projects, err := h.projects.List(c.Request.Context(), scope.ToFilter())
	if err != nil {
		queryFailed(c, err)
		return nil, false
	}
	return projects, true
}

func (h *StatsHandler) record(endpoint string) {
	if h.metrics != nil {
		h.metrics.RecordQuery(endpoint)
	}
}

func venueBreakdowns(in map[string]stats.VenueBreakdown) map[string]models.VenueBreakdown {
	out := make(map[string]models.VenueBreakdown, len(in))
	for key, v := range in {
		out[key] = models.VenueBreakdown{Quantity: v.Quantity, Amount: v.Amount, AvgPrice: v.AvgPrice}
	}
	return out
}

func bindStats(c *gin.Context, req any, window *models.WindowScope) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return false
	}
	if msg := window.Validate(); msg != "" {
		badRequest(c, "INVALID_WINDOW", msg)
		return false
	}
	return true
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

func queryFailed(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "QUERY_FAILED", Message: err.Error()},
	})
}
