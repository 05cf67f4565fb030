package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomove/mobility-backend-go/internal/handler"
	"github.com/ecomove/mobility-backend-go/internal/middleware"
	"github.com/ecomove/mobility-backend-go/internal/service"
)

// SetupRouter wires the HTTP routes over the dataset service.
func SetupRouter(datasetService *service.DatasetService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(120, time.Minute))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Mobility Backend API is running",
		})
	})

	queryHandler := handler.NewQueryHandler(datasetService)
	datasetHandler := handler.NewDatasetHandler(datasetService)

	api := r.Group("/api/v1")
	{
		query := api.Group("/query")
		{
			query.GET("/periods", queryHandler.GetPeriods)
			query.GET("/kpis", queryHandler.GetKPIs)
			query.GET("/timeseries", queryHandler.GetTimeSeries)
			query.GET("/composition", queryHandler.GetComposition)
			query.GET("/correlation", queryHandler.GetCorrelation)
		}

		dataset := api.Group("/dataset")
		{
			dataset.GET("/report", datasetHandler.GetReport)
			dataset.POST("/rebuild", datasetHandler.Rebuild)
			dataset.GET("/export/daily", datasetHandler.ExportDaily)
			dataset.GET("/export/weekly", datasetHandler.ExportWeekly)
		}
	}

	return r
}
