package fusion

import (
	"sort"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// Dataset is the immutable fused result of one build. It is safe for
// concurrent readers; a refresh builds a new Dataset and swaps the
// reference, it never mutates an existing one.
type Dataset struct {
	rows    []models.FusedRow
	periods []string
	groups  []string

	hasSurvey   bool
	hasFeedback bool
}

// Rows returns the fused rows, sorted by period key then user.
// Callers must not modify the returned slice.
func (d *Dataset) Rows() []models.FusedRow {
	return d.rows
}

// Periods returns the sorted distinct period key domain.
func (d *Dataset) Periods() []string {
	return d.periods
}

// Groups returns the distinct group labels in stable sort order.
func (d *Dataset) Groups() []string {
	return d.groups
}

// HasSurvey reports whether survey projections were joined.
func (d *Dataset) HasSurvey() bool { return d.hasSurvey }

// HasFeedback reports whether feedback projections were joined.
func (d *Dataset) HasFeedback() bool { return d.hasFeedback }

// Len returns the fused row count.
func (d *Dataset) Len() int { return len(d.rows) }

// surveyProjection accumulates coerced projections for one (user, period),
// averaging across duplicate submissions.
type surveyProjection struct {
	wellBeingSum float64
	wellBeingN   int
	habitCount   int
}

// Join fuses mobility rows with the user table and the optional survey and
// feedback tables. Mobility x metadata is a strict inner join on the
// canonical user ID; rows whose six movement distances are all zero are
// excluded, matching the analysis dataset the dashboard consumed. Survey
// and feedback projections attach on (user, canonical week key) and stay
// missing when no source row coerces. Inputs are never mutated.
func Join(
	mobility []models.MobilityMetricRow,
	users []models.UserRecord,
	surveys []models.SurveyResponse,
	feedbacks []models.FeedbackResponse,
) *Dataset {
	userIndex := make(map[string]models.UserRecord, len(users))
	for _, u := range users {
		userIndex[CanonicalUserID(u.UserID)] = u
	}

	surveyIndex := buildSurveyIndex(surveys)
	feedbackIndex := buildFeedbackIndex(feedbacks)

	ds := &Dataset{
		hasSurvey:   len(surveys) > 0,
		hasFeedback: len(feedbacks) > 0,
	}

	periodSet := make(map[string]bool)
	groupSet := make(map[string]bool)

	for _, row := range mobility {
		uid := CanonicalUserID(row.UserID)
		user, ok := userIndex[uid]
		if !ok {
			continue
		}
		if allZero(row.DistanceByKind) {
			continue
		}

		fused := models.FusedRow{
			MobilityMetricRow: row,
			Group:             user.Group,
		}
		fused.UserID = uid

		key := uid + "|" + row.PeriodKey
		if proj, ok := surveyIndex[key]; ok && proj.wellBeingN > 0 {
			fused.WellBeing = models.SomeFloat(proj.wellBeingSum / float64(proj.wellBeingN))
			fused.HabitCount = models.SomeFloat(float64(proj.habitCount))
		} else if ok {
			fused.HabitCount = models.SomeFloat(float64(proj.habitCount))
		}
		if sat, ok := feedbackIndex[key]; ok {
			fused.Satisfaction = sat
		}

		ds.rows = append(ds.rows, fused)
		periodSet[row.PeriodKey] = true
		groupSet[user.Group] = true
	}

	sort.SliceStable(ds.rows, func(i, j int) bool {
		if ds.rows[i].PeriodKey != ds.rows[j].PeriodKey {
			return ds.rows[i].PeriodKey < ds.rows[j].PeriodKey
		}
		return ds.rows[i].UserID < ds.rows[j].UserID
	})

	for p := range periodSet {
		ds.periods = append(ds.periods, p)
	}
	sort.Strings(ds.periods)

	for g := range groupSet {
		ds.groups = append(ds.groups, g)
	}
	sort.Strings(ds.groups)

	return ds
}

// buildSurveyIndex coerces survey answers into per-key projections.
// The period key of a response may be a submission date; it canonicalizes
// to the ISO week it falls in.
func buildSurveyIndex(surveys []models.SurveyResponse) map[string]*surveyProjection {
	index := make(map[string]*surveyProjection)
	for _, s := range surveys {
		week, ok := CanonicalWeekKey(s.PeriodKey, "")
		if !ok {
			continue
		}
		key := CanonicalUserID(s.UserID) + "|" + week

		proj, ok := index[key]
		if !ok {
			proj = &surveyProjection{}
			index[key] = proj
		}

		for _, field := range sortedKeys(s.Answers) {
			raw := s.Answers[field]
			if IsAffirmative(raw) {
				proj.habitCount++
				continue
			}
			if v := CoerceNumeric(raw); v.Valid {
				proj.wellBeingSum += v.Value
				proj.wellBeingN++
			}
		}
	}
	return index
}

// buildFeedbackIndex extracts the percentage-like satisfaction value per
// key. Preferred field names win; otherwise the first coercible answer in
// field order is used, so repeated builds are deterministic.
func buildFeedbackIndex(feedbacks []models.FeedbackResponse) map[string]models.NullFloat {
	preferred := []string{"satisfaction", "percent", "percentage", "score"}

	index := make(map[string]models.NullFloat)
	for _, f := range feedbacks {
		week, ok := CanonicalWeekKey(f.PeriodKey, f.Answers["year"])
		if !ok {
			continue
		}
		key := CanonicalUserID(f.UserID) + "|" + week

		value := models.NullFloat{}
		for _, field := range preferred {
			if raw, ok := f.Answers[field]; ok {
				value = CoerceNumeric(raw)
				break
			}
		}
		if !value.Valid {
			for _, field := range sortedKeys(f.Answers) {
				if field == "year" {
					continue
				}
				if v := CoerceNumeric(f.Answers[field]); v.Valid {
					value = v
					break
				}
			}
		}

		if value.Valid {
			index[key] = value
		}
	}
	return index
}

func allZero(distances map[models.ActivityKind]float64) bool {
	for _, km := range distances {
		if km != 0 {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
