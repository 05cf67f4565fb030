package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/query"
	"github.com/ecomove/mobility-backend-go/internal/service"
	"github.com/ecomove/mobility-backend-go/pkg/response"
)

// QueryHandler handles HTTP requests for range queries over the fused dataset
type QueryHandler struct {
	datasetService *service.DatasetService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(datasetService *service.DatasetService) *QueryHandler {
	return &QueryHandler{
		datasetService: datasetService,
	}
}

// engine builds a query engine over the current dataset, or reports 503
// while no dataset has been built yet.
func (h *QueryHandler) engine(c *gin.Context) (*query.Engine, bool) {
	ds := h.datasetService.Dataset()
	if ds == nil {
		response.ServiceUnavailable(c, "Dataset not built yet")
		return nil, false
	}
	return query.NewEngine(ds), true
}

// window resolves the startIndex/endIndex query parameters.
func (h *QueryHandler) window(c *gin.Context, e *query.Engine) (query.Window, bool) {
	startIdx, err := strconv.Atoi(c.DefaultQuery("startIndex", "0"))
	if err != nil {
		response.BadRequest(c, "Invalid startIndex parameter")
		return query.Window{}, false
	}
	endIdx, err := strconv.Atoi(c.DefaultQuery("endIndex", strconv.Itoa(len(e.Periods())-1)))
	if err != nil {
		response.BadRequest(c, "Invalid endIndex parameter")
		return query.Window{}, false
	}

	w, err := e.ResolveWindow(startIdx, endIdx)
	if err != nil {
		response.NotFound(c, err.Error())
		return query.Window{}, false
	}
	return w, true
}

// GetPeriods handles GET /api/v1/query/periods
func (h *QueryHandler) GetPeriods(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	response.Success(c, e.Periods())
}

// GetKPIs handles GET /api/v1/query/kpis
func (h *QueryHandler) GetKPIs(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	w, ok := h.window(c, e)
	if !ok {
		return
	}

	response.Success(c, e.KPIs(w))
}

// GetTimeSeries handles GET /api/v1/query/timeseries
func (h *QueryHandler) GetTimeSeries(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	w, ok := h.window(c, e)
	if !ok {
		return
	}

	metric := c.DefaultQuery("metric", models.MetricPercentSustainable)
	response.Success(c, e.TimeSeries(w, metric))
}

// GetComposition handles GET /api/v1/query/composition
func (h *QueryHandler) GetComposition(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	w, ok := h.window(c, e)
	if !ok {
		return
	}

	response.Success(c, e.Composition(w))
}

// GetCorrelation handles GET /api/v1/query/correlation
func (h *QueryHandler) GetCorrelation(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	w, ok := h.window(c, e)
	if !ok {
		return
	}

	response.Success(c, e.Correlation(w))
}
