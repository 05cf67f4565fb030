package models

// UserRecord is one row of the user metadata table. Read-only reference
// data; Group is the cohort dimension for every aggregate comparison.
type UserRecord struct {
	UserID      string `json:"user_id"`
	DisplayCode string `json:"display_code"` // telegram_user_id column in users.csv
	Language    string `json:"language"`
	State       string `json:"state"`
	Group       string `json:"group"`
}

// SurveyResponse is one survey submission, keyed by (user, period).
// Answers keeps the raw text values; coercion happens in the joiner.
type SurveyResponse struct {
	UserID    string            `json:"user_id"`
	PeriodKey string            `json:"period_key"`
	Answers   map[string]string `json:"answers"`
}

// FeedbackResponse is one feedback submission, keyed by (user, ISO week).
type FeedbackResponse struct {
	UserID    string            `json:"user_id"`
	PeriodKey string            `json:"period_key"`
	Answers   map[string]string `json:"answers"`
}
