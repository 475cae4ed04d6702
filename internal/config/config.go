package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreSupabase = "supabase"
	StoreSQLite   = "sqlite"
)

// Ingestion pipeline variants
const (
	ModeEnhanced = "enhanced"
	ModePlain    = "plain"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Database configuration
	StoreDriver        string `json:"store_driver" validate:"oneof=supabase sqlite"`
	SupabaseURL        string `json:"supabase_url" validate:"omitempty,url"`
	SupabaseServiceKey string `json:"-" validate:"required_if=StoreDriver supabase"`
	SQLitePath         string `json:"sqlite_path" validate:"required_if=StoreDriver sqlite"`

	// Redis configuration
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// Ingestion
	FetchTimeout         time.Duration `json:"fetch_timeout" validate:"gt=0"`
	UserAgent            string        `json:"user_agent" validate:"required"`
	DailyPostLimit       int           `json:"daily_post_limit" validate:"gte=0"`
	SourceDailyPostLimit int           `json:"source_daily_post_limit" validate:"gte=0"`
	IngestMode           string        `json:"ingest_mode" validate:"oneof=enhanced plain"`
	IngestTimeout        time.Duration `json:"ingest_timeout" validate:"gt=0"`
	CronSchedule         string        `json:"cron_schedule"`

	// Translation
	TranslateAPIKey string `json:"-"`
	TranslateTarget string `json:"translate_target"`

	// AI Configuration
	AIProvider          string        `json:"ai_provider" validate:"oneof=openai gemini"`
	AIApiKey            string        `json:"-"`
	AIModel             string        `json:"ai_model"`
	AIBaseURL           string        `json:"ai_base_url" validate:"omitempty,url"`
	AITimeout           time.Duration `json:"ai_timeout"`
	AIRequestsPerMinute int           `json:"ai_requests_per_minute" validate:"gt=0"`

	// Archive
	ArchivePath string `json:"archive_path"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"-"`
	R2SecretKey string `json:"-"`
	R2Bucket    string `json:"r2_bucket"`
	R2AccountID string `json:"r2_account_id"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`

	// Security
	AdminAPIKey string `json:"-"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Database configuration
		StoreDriver:        getEnv("STORE_DRIVER", StoreSupabase),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "./data/feedpress.db"),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "feedpress:slug:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 720*time.Hour), // 30 days

		// Ingestion
		FetchTimeout:         getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0 (compatible; FeedpressBot/1.0; +https://feedpress.app/bot)"),
		DailyPostLimit:       getEnvAsInt("DAILY_POST_LIMIT", 5),
		SourceDailyPostLimit: getEnvAsInt("SOURCE_DAILY_POST_LIMIT", 1),
		IngestMode:           getEnv("INGEST_MODE", ModeEnhanced),
		IngestTimeout:        getEnvAsDuration("INGEST_TIMEOUT", 10*time.Minute),
		CronSchedule:         getEnv("CRON_SCHEDULE", ""),

		// Translation
		TranslateAPIKey: getEnv("TRANSLATE_API_KEY", ""),
		TranslateTarget: getEnv("TRANSLATE_TARGET", ""),

		// AI Configuration
		AIProvider:          getEnv("AI_PROVIDER", "openai"),
		AIApiKey:            getEnv("AI_API_KEY", ""),
		AIModel:             getEnv("AI_MODEL", ""), // empty selects the provider's default
		AIBaseURL:           getEnv("AI_BASE_URL", ""),
		AITimeout:           getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		AIRequestsPerMinute: getEnvAsInt("AI_REQUESTS_PER_MINUTE", 20),

		ArchivePath: getEnv("ARCHIVE_PATH", ""),

		// CloudFlare R2 Configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks required settings. Missing database credentials are reported here.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.StoreDriver == StoreSupabase && c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required for the %s store", StoreSupabase)
	}
	return nil
}

// TranslationEnabled reports whether entries should be sent to the translation API
func (c *Config) TranslationEnabled() bool {
	return c.TranslateAPIKey != "" && c.TranslateTarget != ""
}

// R2Enabled reports whether posts should be archived to the R2 bucket
func (c *Config) R2Enabled() bool {
	return c.R2Bucket != "" && c.R2AccessKey != "" && c.R2SecretKey != "" &&
		(c.R2Endpoint != "" || c.R2AccountID != "")
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
