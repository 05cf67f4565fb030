// Package parser normalizes one user's decoded event collection into typed
// activity segments. Individual malformed records are skipped, never fatal;
// the only hard failure is an unrecognized top-level container shape.
package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// WrapperField is the object field the event list may be nested under.
const WrapperField = "semanticSegments"

// FormatError reports an unrecognized top-level container shape for one
// user's event file. It aborts parsing for that user only.
type FormatError struct {
	UserID string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized event format for user %s: %s", e.UserID, e.Reason)
}

// Result holds the parsed segments plus skip accounting for one user.
type Result struct {
	Segments []models.ActivitySegment
	Skipped  int // Records dropped: no timestamp, out of range, no activity
}

// Parse normalizes one decoded event collection into ordered activity
// segments. The container must be either a direct JSON array of records or
// an object exposing the records under WrapperField; anything else is a
// FormatError. Records inside the closed [start, end] interval with a
// parsable startTime and a classified activity become segments; the rest
// are counted and skipped. The input is never mutated, so re-invoking on
// the same value yields the same result.
func Parse(userID string, container interface{}, start, end time.Time) (*Result, error) {
	entries, err := extractEntries(userID, container)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			result.Skipped++
			continue
		}

		startTime, ok := parseStartTime(entry)
		if !ok {
			result.Skipped++
			continue
		}
		if startTime.Before(start) || startTime.After(end) {
			result.Skipped++
			continue
		}

		kind, ok := extractKind(entry)
		if !ok {
			result.Skipped++
			continue
		}

		km := extractDistanceMeters(entry) / 1000
		if km < 0 {
			km = 0
		}

		result.Segments = append(result.Segments, models.ActivitySegment{
			UserID:     userID,
			StartTime:  startTime,
			Kind:       kind,
			DistanceKm: km,
		})
	}

	return result, nil
}

// extractEntries resolves the two accepted container shapes.
func extractEntries(userID string, container interface{}) ([]interface{}, error) {
	switch v := container.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		wrapped, ok := v[WrapperField]
		if !ok {
			return nil, &FormatError{UserID: userID, Reason: "object without " + WrapperField + " field"}
		}
		entries, ok := wrapped.([]interface{})
		if !ok {
			return nil, &FormatError{UserID: userID, Reason: WrapperField + " is not a list"}
		}
		return entries, nil
	default:
		return nil, &FormatError{UserID: userID, Reason: "neither a list nor an object"}
	}
}

func parseStartTime(entry map[string]interface{}) (time.Time, bool) {
	raw, ok := entry["startTime"].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// extractKind reads activity.topCandidate.type and normalizes it to the
// canonical lower-case space-separated form. Unrecognized kinds map to
// KindUnknown, which the aggregator drops from accumulation.
func extractKind(entry map[string]interface{}) (models.ActivityKind, bool) {
	activity, ok := entry["activity"].(map[string]interface{})
	if !ok {
		return models.KindUnknown, false
	}
	top, ok := activity["topCandidate"].(map[string]interface{})
	if !ok {
		return models.KindUnknown, false
	}
	rawType, ok := top["type"].(string)
	if !ok {
		return models.KindUnknown, false
	}
	return NormalizeKind(rawType), true
}

// NormalizeKind lower-cases a raw kind label, turns underscores into spaces
// and maps it against the six-kind enumeration. Anything unrecognized is
// retained as KindUnknown rather than raising.
func NormalizeKind(raw string) models.ActivityKind {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", " ")
	kind := models.ActivityKind(normalized)
	if kind.IsClassified() {
		return kind
	}
	return models.KindUnknown
}

// extractDistanceMeters reads activity.distanceMeters, accepting numeric
// and numeric-string encodings. Absent or unparsable distances default to 0.
func extractDistanceMeters(entry map[string]interface{}) float64 {
	activity, ok := entry["activity"].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := activity["distanceMeters"].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
