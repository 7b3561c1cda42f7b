package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Session  SessionConfig  `yaml:"session"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// UploadConfig holds CSV upload handling configuration
type UploadConfig struct {
	Dir          string `yaml:"dir"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// IngestConfig holds encoding detection configuration for CSV loads.
type IngestConfig struct {
	// DefaultEncoding, when set, is tried before the sniffed encoding
	// and the built-in fallback list (cp932, shift_jis, utf-8-sig, utf-8).
	DefaultEncoding string `yaml:"default_encoding"`
}

// AnalysisConfig holds the defaults for a repeat analysis run.
type AnalysisConfig struct {
	CompletedStatus     string  `yaml:"completed_status"`
	MinRepeatCount      int     `yaml:"min_repeat_count"`
	MinStylistCustomers int     `yaml:"min_stylist_customers"`
	MinCouponCustomers  int     `yaml:"min_coupon_customers"`
	TargetFirstRepeat   float64 `yaml:"target_first_repeat"`
	TargetSecondRepeat  float64 `yaml:"target_second_repeat"`
	TargetThirdRepeat   float64 `yaml:"target_third_repeat"`
}

// SessionConfig holds session store configuration. When RedisAddr is empty
// the in-memory store is used and sessions do not survive a restart.
type SessionConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLMinutes    int    `yaml:"ttl_minutes"`
}

// TTL returns the session time-to-live as a duration
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ArchiveConfig holds the optional Postgres run-history archive.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// ReportConfig holds text report output configuration
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for callers
// (CLI, tests) that run without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.MaxSizeBytes == 0 {
		c.Upload.MaxSizeBytes = 100 << 20 // 100MB, matches the booking-system export cap
	}
	if c.Analysis.CompletedStatus == "" {
		c.Analysis.CompletedStatus = "済み"
	}
	if c.Analysis.MinRepeatCount == 0 {
		c.Analysis.MinRepeatCount = 3
	}
	if c.Analysis.MinStylistCustomers == 0 {
		c.Analysis.MinStylistCustomers = 10
	}
	if c.Analysis.MinCouponCustomers == 0 {
		c.Analysis.MinCouponCustomers = 5
	}
	if c.Analysis.TargetFirstRepeat == 0 {
		c.Analysis.TargetFirstRepeat = 35.0
	}
	if c.Analysis.TargetSecondRepeat == 0 {
		c.Analysis.TargetSecondRepeat = 45.0
	}
	if c.Analysis.TargetThirdRepeat == 0 {
		c.Analysis.TargetThirdRepeat = 60.0
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 120
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so local settings can live in .env and real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Run on defaults when no config file is present.
		cfg = Default()
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Session.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Session.RedisPassword = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Archive.DatabaseURL = v
		cfg.Archive.Enabled = true
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Upload.Dir = v
	}
	if v := os.Getenv("CSV_DEFAULT_ENCODING"); v != "" {
		cfg.Ingest.DefaultEncoding = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}
