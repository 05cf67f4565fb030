// Package fusion joins mobility metric rows with user metadata and
// survey/feedback projections into one immutable queryable dataset.
//
// Identifiers and period keys arrive in different primitive shapes per
// source, so every key runs through one declared canonicalization function
// before comparison; joins are plain equality, never accidental coercion.
package fusion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/models"
	"github.com/ecomove/mobility-backend-go/internal/period"
)

// CanonicalUserID normalizes a user identifier to its canonical textual
// form. Numeric-looking identifiers exported through spreadsheets arrive
// as floats ("10042.0"); those collapse to the plain integer form.
func CanonicalUserID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return id
}

// CanonicalWeekKey normalizes a week reference to the "YYYY-Www" form.
// Accepted shapes: "2025-W14" (any case, unpadded), "2025-14", a calendar
// date (its ISO week is derived), or a bare week number combined with a
// non-empty year. Returns false when the value cannot be resolved.
func CanonicalWeekKey(raw, year string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}

	// Date forms: derive the ISO week.
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return period.WeekKey(t), true
		}
	}

	// "YYYY-Www" or "YYYY-ww" forms.
	upper := strings.ToUpper(v)
	if idx := strings.Index(upper, "-"); idx > 0 {
		yearPart := upper[:idx]
		weekPart := strings.TrimPrefix(upper[idx+1:], "W")
		y, errY := strconv.Atoi(yearPart)
		w, errW := strconv.Atoi(weekPart)
		if errY == nil && errW == nil && w >= 1 && w <= 53 {
			return fmt.Sprintf("%d-W%02d", y, w), true
		}
		return "", false
	}

	// Bare week number, usable only with an explicit year.
	w, err := strconv.Atoi(upper)
	if err != nil || w < 1 || w > 53 {
		return "", false
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%d-W%02d", y, w), true
}

// ordinalScale maps categorical frequency labels to a 1-5 ordinal value.
// English and Italian labels, matching the survey languages in the field.
var ordinalScale = map[string]float64{
	"never":     1,
	"mai":       1,
	"rarely":    2,
	"raramente": 2,
	"sometimes": 3,
	"a volte":   3,
	"often":     4,
	"spesso":    4,
	"always":    5,
	"sempre":    5,
}

// affirmative marks answers that count toward the habit projection.
var affirmative = map[string]bool{
	"yes":  true,
	"si":   true,
	"sì":   true,
	"true": true,
}

// CoerceNumeric converts a free-text survey/feedback value to a number.
// Categorical labels go through the ordinal lookup; numeric strings are
// cleaned (percent sign stripped, comma decimal separator normalized).
// Values that fail both paths are missing, never zero.
func CoerceNumeric(raw string) models.NullFloat {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || v == "n/a" || v == "na" || v == "-" {
		return models.NullFloat{}
	}

	if ordinal, ok := ordinalScale[v]; ok {
		return models.SomeFloat(ordinal)
	}

	cleaned := strings.TrimSuffix(v, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return models.NullFloat{}
	}
	return models.SomeFloat(f)
}

// IsAffirmative reports whether a categorical answer counts as a habit.
func IsAffirmative(raw string) bool {
	return affirmative[strings.ToLower(strings.TrimSpace(raw))]
}
