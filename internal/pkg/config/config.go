package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the ambient application configuration. Per-run options such
// as the project ID live on CLI flags; env vars carry defaults an operator
// sets once per environment.
type Config struct {
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	ExcelFile         string `env:"ALERTS_EXCEL_FILE" envDefault:"atlas_alert_configurations.xlsx"`
	OutputDir         string `env:"ALERTS_OUTPUT_DIR" envDefault:"./alerts"`
	TrackingFile      string `env:"ALERTS_TRACKING_FILE" envDefault:".automation_alert_ids.json"`
	NotificationRoles string `env:"NOTIFICATION_ROLES" envDefault:"GROUP_OWNER"`
	NotificationEmail string `env:"NOTIFICATION_EMAIL"`
	MongoURI          string `env:"MONGO_URI"`
	MetricsAddr       string `env:"METRICS_ADDR" envDefault:":9091"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
