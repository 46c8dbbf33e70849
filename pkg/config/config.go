package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Sim      SimConfig
	Export   ExportConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Verbose     bool
}

type ServerConfig struct {
	Enabled bool
	Port    string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type ExportConfig struct {
	Dir string
}

// SimConfig carries every knob the simulation engine accepts. Invalid values
// abort before any run starts.
type SimConfig struct {
	MatrixSize          int     `validate:"gt=0"`
	NumberOfTicks       int     `validate:"gt=0"`
	NumberOfExperiments int     `validate:"gt=0"`
	Workers             int     `validate:"gt=0"`
	SearchPrice         float64 `validate:"gt=0"`
	ConsumePrice        float64 `validate:"gt=0"`
	StartingBudget      float64 `validate:"gt=0"`
	WellServedThreshold float64 `validate:"gte=0,lte=1"`
	TopNSize            int     `validate:"gt=0"`
	NumberOfNewUsers    int     `validate:"gt=0"`
	UtilityMean         float64
	UtilityStd          float64 `validate:"gt=0"`
	ReviewNoiseStd      float64 `validate:"gte=0"`

	// RatingScale 0 selects the three-level -1/0/+1 scale; n > 1 selects a
	// 1..n scale with neutral midpoint (n+1)/2.
	RatingScale int `validate:"gte=0,ne=1"`

	Seed int64
}

// ConfigurationError marks a parameter that failed range validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Recsim"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Verbose:     getEnvBool("APP_VERBOSE", false),
		},
		Server: ServerConfig{
			Enabled: getEnvBool("SERVER_ENABLED", true),
			Port:    getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "recsim"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", ""),
		},
		Sim: SimConfig{
			MatrixSize:          getEnvInt("SIM_MATRIX_SIZE", 20),
			NumberOfTicks:       getEnvInt("SIM_TICKS", 10),
			NumberOfExperiments: getEnvInt("SIM_EXPERIMENTS", 10),
			Workers:             getEnvInt("SIM_WORKERS", 4),
			SearchPrice:         getEnvFloat("SIM_SEARCH_PRICE", 1),
			ConsumePrice:        getEnvFloat("SIM_CONSUME_PRICE", 5),
			StartingBudget:      getEnvFloat("SIM_STARTING_BUDGET", 10),
			WellServedThreshold: getEnvFloat("SIM_WELL_SERVED_THRESHOLD", 0.8),
			TopNSize:            getEnvInt("SIM_TOP_N", 10),
			NumberOfNewUsers:    getEnvInt("SIM_NEW_USERS", 10),
			UtilityMean:         getEnvFloat("SIM_UTILITY_MEAN", 4),
			UtilityStd:          getEnvFloat("SIM_UTILITY_STD", 2),
			ReviewNoiseStd:      getEnvFloat("SIM_REVIEW_NOISE_STD", 0),
			RatingScale:         getEnvInt("SIM_RATING_SCALE", 0),
			Seed:                int64(getEnvInt("SIM_SEED", 20)),
		},
	}

	if cfg.Database.Enabled && cfg.Database.Password == "" {
		return nil, &ConfigurationError{Field: "DB_PASSWORD", Reason: "is required when DB_ENABLED=true"}
	}

	if err := cfg.Sim.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on out-of-range simulation parameters.
func (s SimConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &ConfigurationError{
				Field:  errs[0].Field(),
				Reason: fmt.Sprintf("failed %q check (got %v)", errs[0].Tag(), errs[0].Value()),
			}
		}
		return err
	}
	return nil
}

// NeutralScore is the midpoint of the configured rating scale: the score a
// review must exceed to count as positive.
func (s SimConfig) NeutralScore() float64 {
	if s.RatingScale == 0 {
		return 0
	}
	return float64(s.RatingScale+1) / 2
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
