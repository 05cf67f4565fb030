package service

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/aggregate"
	"github.com/ecomove/mobility-backend-go/internal/config"
	"github.com/ecomove/mobility-backend-go/internal/fusion"
	"github.com/ecomove/mobility-backend-go/internal/ingest"
	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/parser"
)

// DatasetService owns the build pipeline and the current fused dataset.
// A rebuild constructs a complete new dataset and swaps the pointer
// atomically, so concurrent readers never observe a partial join.
type DatasetService struct {
	cfg     *config.Config
	current atomic.Pointer[builtDataset]
}

type builtDataset struct {
	dataset *fusion.Dataset
	weekly  []models.MobilityMetricRow
	daily   []models.MobilityMetricRow
	report  models.BuildReport
}

// NewDatasetService creates a new dataset service
func NewDatasetService(cfg *config.Config) *DatasetService {
	return &DatasetService{cfg: cfg}
}

// Dataset returns the current fused dataset, nil before the first build.
func (s *DatasetService) Dataset() *fusion.Dataset {
	if built := s.current.Load(); built != nil {
		return built.dataset
	}
	return nil
}

// Report returns the build report of the current dataset.
func (s *DatasetService) Report() (models.BuildReport, bool) {
	if built := s.current.Load(); built != nil {
		return built.report, true
	}
	return models.BuildReport{}, false
}

// WeeklyRows returns the scored weekly rows of the current build.
func (s *DatasetService) WeeklyRows() []models.MobilityMetricRow {
	if built := s.current.Load(); built != nil {
		return built.weekly
	}
	return nil
}

// DailyRows returns the scored daily rows of the current build.
func (s *DatasetService) DailyRows() []models.MobilityMetricRow {
	if built := s.current.Load(); built != nil {
		return built.daily
	}
	return nil
}

// Rebuild runs the full pipeline and swaps in the result. Per-user parse
// failures are isolated into the report; a missing auxiliary table drops
// only the features depending on it. Fails only when the user metadata
// table is absent, since every fusion needs it.
func (s *DatasetService) Rebuild() error {
	started := time.Now()

	users, err := ingest.LoadUsers(s.cfg.UsersPath)
	if err != nil {
		return fmt.Errorf("cannot build dataset without user table: %w", err)
	}

	report := models.BuildReport{UserErrors: make(map[string]string)}

	surveys, err := ingest.LoadSurveys(s.cfg.SurveyPath)
	if err != nil {
		if !errors.Is(err, ingest.ErrMissingSource) {
			return err
		}
		report.MissingSources = append(report.MissingSources, "survey")
		log.Printf("Survey table missing, building without survey projections: %v", err)
	}

	feedbacks, err := ingest.LoadFeedback(s.cfg.FeedbackPath)
	if err != nil {
		if !errors.Is(err, ingest.ErrMissingSource) {
			return err
		}
		report.MissingSources = append(report.MissingSources, "feedback")
		log.Printf("Feedback table missing, building without feedback projections: %v", err)
	}

	weekly, daily := s.aggregateUploads(&report)

	dataset := fusion.Join(weekly, users, surveys, feedbacks)

	report.RowsWeekly = len(weekly)
	report.RowsDaily = len(daily)
	report.FusedRows = dataset.Len()
	report.BuiltAt = started.UTC().Format(time.RFC3339)
	if len(report.UserErrors) == 0 {
		report.UserErrors = nil
	}

	s.current.Store(&builtDataset{
		dataset: dataset,
		weekly:  weekly,
		daily:   daily,
		report:  report,
	})

	log.Printf("Dataset built: %d users parsed, %d weekly rows, %d fused rows in %v",
		report.UsersParsed, report.RowsWeekly, report.FusedRows, time.Since(started))
	return nil
}

// aggregateUploads parses and aggregates every user's event file. A
// FormatError aborts that user only; the batch continues.
func (s *DatasetService) aggregateUploads(report *models.BuildReport) (weekly, daily []models.MobilityMetricRow) {
	uploads, missing, err := ingest.ScanUploads(s.cfg.UploadsDir)
	if err != nil {
		log.Printf("Uploads directory unavailable: %v", err)
		report.MissingSources = append(report.MissingSources, "uploads")
		return nil, nil
	}
	for _, userID := range missing {
		log.Printf("No event file for user %s", userID)
	}
	report.UsersScanned = len(uploads) + len(missing)

	end := time.Now().UTC()
	for _, upload := range uploads {
		container, err := ingest.LoadEvents(upload.Path)
		if err != nil {
			report.UserErrors[upload.UserID] = err.Error()
			log.Printf("Skipping user %s: %v", upload.UserID, err)
			continue
		}

		result, err := parser.Parse(upload.UserID, container, s.cfg.WindowStart, end)
		if err != nil {
			report.UserErrors[upload.UserID] = err.Error()
			log.Printf("Skipping user %s: %v", upload.UserID, err)
			continue
		}

		report.UsersParsed++
		report.SegmentsKept += len(result.Segments)

		weekBuckets := aggregate.Fold(result.Segments, models.GranularityWeek)
		dayBuckets := aggregate.Fold(result.Segments, models.GranularityDay)
		weekly = append(weekly, aggregate.ScoreAll(weekBuckets)...)
		daily = append(daily, aggregate.ScoreAll(dayBuckets)...)
	}

	return weekly, daily
}
