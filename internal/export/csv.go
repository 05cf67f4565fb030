// Package export writes metric rows as flat CSV with the fixed column
// order downstream joins depend on.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// DailyHeader is the exact daily export column order.
var DailyHeader = []string{
	"user_id", "date",
	"walking", "in bus", "in train", "in passenger vehicle", "running", "cycling",
	"total", "sustainable", "percent_sustainable",
}

// WeeklyHeader is the exact weekly export column order.
var WeeklyHeader = []string{
	"user_id", "week_start", "week_end", "week_number",
	"walking", "in bus", "in train", "in passenger vehicle", "running", "cycling",
	"total", "sustainable", "percent_sustainable",
}

// WriteDaily writes daily metric rows, sorted by period key ascending
// within each user. Numbers use "." as decimal separator; percentages are
// plain numbers without a suffix.
func WriteDaily(w io.Writer, rows []models.MobilityMetricRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(DailyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range sortRows(rows) {
		record := []string{row.UserID, row.PeriodKey}
		record = append(record, kindColumns(row)...)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteWeekly writes weekly metric rows with the week bound columns.
func WriteWeekly(w io.Writer, rows []models.MobilityMetricRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(WeeklyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range sortRows(rows) {
		record := []string{
			row.UserID,
			row.PeriodStart.Format("2006-01-02"),
			row.PeriodEnd.Format("2006-01-02"),
			row.PeriodKey,
		}
		record = append(record, kindColumns(row)...)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// kindColumns renders the six kind distances plus the derived metrics.
func kindColumns(row models.MobilityMetricRow) []string {
	record := make([]string, 0, len(models.AllKinds)+3)
	for _, kind := range models.AllKinds {
		record = append(record, formatFloat(row.DistanceByKind[kind]))
	}
	record = append(record,
		formatFloat(row.TotalKm),
		formatFloat(row.SustainableKm),
		formatFloat(row.PercentSustainable),
	)
	return record
}

// sortRows orders rows by user then period key without touching the input.
func sortRows(rows []models.MobilityMetricRow) []models.MobilityMetricRow {
	sorted := make([]models.MobilityMetricRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UserID != sorted[j].UserID {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].PeriodKey < sorted[j].PeriodKey
	})
	return sorted
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
