package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. INTERVIEW_SERVER_PORT.
const EnvPrefix = "INTERVIEW"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Tracing   TracingConfig   `yaml:"tracing" envconfig:"TRACING"`
	Interview InterviewConfig `yaml:"interview" envconfig:"INTERVIEW"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TracingConfig controls OpenTelemetry request and operation spans
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER"` // "stdout", "none"
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
	Environment string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// InterviewConfig holds the settings of the scoring tool itself
type InterviewConfig struct {
	// RosterFile is the candidate workbook loaded at startup
	RosterFile string `yaml:"roster_file" envconfig:"ROSTER_FILE"`
	// OutputDir receives one result workbook per interviewer
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	// ResultFilename is the base name result files are derived from
	ResultFilename string `yaml:"result_filename" envconfig:"RESULT_FILENAME"`
	// CohortPrefix is the expected two-digit student id prefix
	CohortPrefix string `yaml:"cohort_prefix" envconfig:"COHORT_PREFIX"`
	// PinnedPrefixes are floated to the top of the roster when pinning is on
	PinnedPrefixes []string      `yaml:"pinned_prefixes" envconfig:"PINNED_PREFIXES"`
	TimerMinutes   int           `yaml:"timer_minutes" envconfig:"TIMER_MINUTES"`
	ConfirmTTL     time.Duration `yaml:"confirm_ttl" envconfig:"CONFIRM_TTL"`
	MaxUploadMB    int64         `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB"`
}

// TimerLength is the countdown length of one interview
func (c InterviewConfig) TimerLength() time.Duration {
	return time.Duration(c.TimerMinutes) * time.Minute
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	TickInterval    time.Duration `yaml:"tick_interval" envconfig:"TICK_INTERVAL"`
	WriteWait       time.Duration `yaml:"write_wait" envconfig:"WRITE_WAIT"`
}

// Load builds the configuration from defaults, then the YAML file, then the
// environment. An empty configFile searches the usual locations. A .env file in
// the working directory is loaded into the environment first if present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// envconfig only touches fields whose variable is set, so it overlays
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive when enabled")
	}

	if c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "none" {
		return fmt.Errorf("unsupported trace exporter: %s", c.Tracing.Exporter)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}

	if c.Interview.TimerMinutes < MinTimerMinutes || c.Interview.TimerMinutes > MaxTimerMinutes {
		return fmt.Errorf("timer minutes must be between %d and %d, got %d",
			MinTimerMinutes, MaxTimerMinutes, c.Interview.TimerMinutes)
	}

	if len(strings.TrimSpace(c.Interview.CohortPrefix)) != 2 {
		return fmt.Errorf("cohort prefix must be two characters, got %q", c.Interview.CohortPrefix)
	}

	if c.Interview.OutputDir == "" {
		return fmt.Errorf("output directory must be set")
	}

	if c.Interview.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	// JSON is the only structured format the logger emits
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    DefaultLogFile,
			Development: false,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			SampleRatio: 1.0,
			Environment: "development",
		},
		Interview: InterviewConfig{
			RosterFile:     DefaultRosterFile,
			OutputDir:      DefaultOutputDir,
			ResultFilename: DefaultResultFilename,
			CohortPrefix:   DefaultCohortPrefix,
			PinnedPrefixes: append([]string(nil), DefaultPinnedPrefixes...),
			TimerMinutes:   DefaultTimerMinutes,
			ConfirmTTL:     DefaultConfirmTTL,
			MaxUploadMB:    DefaultMaxUploadMB,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			TickInterval:    time.Second,
			WriteWait:       10 * time.Second,
		},
	}
}
