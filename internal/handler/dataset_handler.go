package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ecomove/mobility-backend-go/internal/export"
	"github.com/ecomove/mobility-backend-go/internal/service"
	"github.com/ecomove/mobility-backend-go/pkg/response"
)

// DatasetHandler handles HTTP requests for dataset lifecycle and export
type DatasetHandler struct {
	datasetService *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
	}
}

// GetReport handles GET /api/v1/dataset/report
func (h *DatasetHandler) GetReport(c *gin.Context) {
	report, ok := h.datasetService.Report()
	if !ok {
		response.ServiceUnavailable(c, "Dataset not built yet")
		return
	}
	response.Success(c, report)
}

// Rebuild handles POST /api/v1/dataset/rebuild
func (h *DatasetHandler) Rebuild(c *gin.Context) {
	if err := h.datasetService.Rebuild(); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	report, _ := h.datasetService.Report()
	response.Success(c, report)
}

// ExportDaily handles GET /api/v1/dataset/export/daily
func (h *DatasetHandler) ExportDaily(c *gin.Context) {
	rows := h.datasetService.DailyRows()
	if rows == nil {
		response.ServiceUnavailable(c, "Dataset not built yet")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="mobility_daily.csv"`)
	if err := export.WriteDaily(c.Writer, rows); err != nil {
		response.InternalError(c, err.Error())
	}
}

// ExportWeekly handles GET /api/v1/dataset/export/weekly
func (h *DatasetHandler) ExportWeekly(c *gin.Context) {
	rows := h.datasetService.WeeklyRows()
	if rows == nil {
		response.ServiceUnavailable(c, "Dataset not built yet")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="mobility_weekly.csv"`)
	if err := export.WriteWeekly(c.Writer, rows); err != nil {
		response.InternalError(c, err.Error())
	}
}
