package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port            string
	UploadsDir      string
	UsersPath       string
	SurveyPath      string
	FeedbackPath    string
	WindowStart     time.Time // Events before this instant are ignored
	RefreshSchedule string    // Cron expression for the dataset rebuild
}

// Load reads configuration from the environment, with a .env file as
// fallback when present.
func Load() *Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", ":8080"),
		UploadsDir:      getEnv("UPLOADS_DIR", "./data/uploads"),
		UsersPath:       getEnv("USERS_PATH", "./data/users.csv"),
		SurveyPath:      getEnv("SURVEY_PATH", "./data/survey.csv"),
		FeedbackPath:    getEnv("FEEDBACK_PATH", "./data/feedback.csv"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 3 * * *"),
	}

	windowStart := getEnv("WINDOW_START", "2025-04-01T00:00:00Z")
	t, err := time.Parse(time.RFC3339, windowStart)
	if err != nil {
		t = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	}
	cfg.WindowStart = t

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
