// Command export aggregates every user's event uploads into one combined
// daily or weekly mobility CSV.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/aggregate"
	"github.com/ecomove/mobility-backend-go/internal/export"
	"github.com/ecomove/mobility-backend-go/internal/ingest"
	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/parser"
)

func main() {
	uploadsDir := flag.String("uploads", "uploads", "Directory containing per-user event files")
	output := flag.String("output", "mobility.csv", "Output CSV path")
	granularityFlag := flag.String("granularity", "day", "Aggregation period: day or week")
	windowStart := flag.String("start", "2025-04-01T00:00:00Z", "Ignore events before this RFC 3339 instant")
	flag.Parse()

	granularity := models.Granularity(*granularityFlag)
	if granularity != models.GranularityDay && granularity != models.GranularityWeek {
		log.Fatalf("Invalid granularity %q: must be day or week", *granularityFlag)
	}

	start, err := time.Parse(time.RFC3339, *windowStart)
	if err != nil {
		log.Fatalf("Invalid start %q: %v", *windowStart, err)
	}
	end := time.Now().UTC()

	uploads, missing, err := ingest.ScanUploads(*uploadsDir)
	if err != nil {
		log.Fatalf("Failed to scan uploads: %v", err)
	}
	for _, userID := range missing {
		log.Printf("No event file for user %s", userID)
	}

	var rows []models.MobilityMetricRow
	for _, upload := range uploads {
		container, err := ingest.LoadEvents(upload.Path)
		if err != nil {
			log.Printf("Error for user %s: %v", upload.UserID, err)
			continue
		}

		result, err := parser.Parse(upload.UserID, container, start, end)
		if err != nil {
			log.Printf("Error for user %s: %v", upload.UserID, err)
			continue
		}

		buckets := aggregate.Fold(result.Segments, granularity)
		rows = append(rows, aggregate.ScoreAll(buckets)...)
		log.Printf("Processed user %s (%d periods)", upload.UserID, len(buckets))
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	defer f.Close()

	if granularity == models.GranularityWeek {
		err = export.WriteWeekly(f, rows)
	} else {
		err = export.WriteDaily(f, rows)
	}
	if err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}

	log.Printf("Saved %s (%d rows)", *output, len(rows))
}
