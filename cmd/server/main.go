package main

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/ecomove/mobility-backend-go/internal/api"
	"github.com/ecomove/mobility-backend-go/internal/config"
	"github.com/ecomove/mobility-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	datasetService := service.NewDatasetService(cfg)
	if err := datasetService.Rebuild(); err != nil {
		// Queries return 503 until a rebuild succeeds.
		log.Printf("Initial dataset build failed: %v", err)
	}

	// Scheduled rebuild-and-swap keeps readers on a consistent dataset.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		if err := datasetService.Rebuild(); err != nil {
			log.Printf("Scheduled dataset rebuild failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Invalid refresh schedule:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := api.SetupRouter(datasetService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
