package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// ErrMissingSource marks an expected auxiliary table that is absent.
// Fatal only for the features depending on that table; the rest of the
// build continues without it.
var ErrMissingSource = errors.New("missing source table")

// LoadUsers reads the user metadata table. Columns are positional
// (user_id, telegram_user_id, language, state, group); a header row is
// detected by the first cell and skipped.
func LoadUsers(path string) ([]models.UserRecord, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var users []models.UserRecord
	for i, record := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "user_id") {
			continue
		}
		if len(record) < 5 {
			continue
		}
		users = append(users, models.UserRecord{
			UserID:      strings.TrimSpace(record[0]),
			DisplayCode: strings.TrimSpace(record[1]),
			Language:    strings.TrimSpace(record[2]),
			State:       strings.TrimSpace(record[3]),
			Group:       strings.TrimSpace(record[4]),
		})
	}
	return users, nil
}

// LoadSurveys reads the survey table. The first two columns key the row
// (user_id, response_date); every remaining header column is kept as a raw
// answer for the joiner to coerce.
func LoadSurveys(path string) ([]models.SurveyResponse, error) {
	header, rows, err := readKeyedCSV(path)
	if err != nil {
		return nil, err
	}

	var surveys []models.SurveyResponse
	for _, record := range rows {
		surveys = append(surveys, models.SurveyResponse{
			UserID:    strings.TrimSpace(record[0]),
			PeriodKey: strings.TrimSpace(record[1]),
			Answers:   answerMap(header, record),
		})
	}
	return surveys, nil
}

// LoadFeedback reads the feedback table, keyed by (user_id, iso_week).
func LoadFeedback(path string) ([]models.FeedbackResponse, error) {
	header, rows, err := readKeyedCSV(path)
	if err != nil {
		return nil, err
	}

	var feedbacks []models.FeedbackResponse
	for _, record := range rows {
		feedbacks = append(feedbacks, models.FeedbackResponse{
			UserID:    strings.TrimSpace(record[0]),
			PeriodKey: strings.TrimSpace(record[1]),
			Answers:   answerMap(header, record),
		})
	}
	return feedbacks, nil
}

// readCSV reads all records of one CSV file, mapping a missing file to
// ErrMissingSource.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Rows may carry trailing answer columns

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// readKeyedCSV reads a table whose first row is the header and whose first
// two columns are the row key.
func readKeyedCSV(path string) (header []string, rows [][]string, err error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header = records[0]
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

// answerMap pairs the answer columns (everything past the two key
// columns) with their header names.
func answerMap(header, record []string) map[string]string {
	answers := make(map[string]string)
	for i := 2; i < len(record) && i < len(header); i++ {
		name := strings.TrimSpace(strings.ToLower(header[i]))
		if name == "" {
			continue
		}
		answers[name] = record[i]
	}
	return answers
}
