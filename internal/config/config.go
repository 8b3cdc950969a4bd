package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. CALGEN_SERVER_PORT.
const EnvPrefix = "CALGEN"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Templates TemplatesConfig `yaml:"templates" envconfig:"TEMPLATES"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// TemplatesConfig locates the document templates. Each kind has an active
// path that uploads overwrite and a read-only fallback copied into place on
// first use.
type TemplatesConfig struct {
	CalendarPath     string `yaml:"calendar_path" envconfig:"CALENDAR_PATH" default:"data/Template.docx"`
	CalendarFallback string `yaml:"calendar_fallback" envconfig:"CALENDAR_FALLBACK" default:"Template.docx"`
	QuotesPath       string `yaml:"quotes_path" envconfig:"QUOTES_PATH" default:"data/Template_quotes.docx"`
	QuotesFallback   string `yaml:"quotes_fallback" envconfig:"QUOTES_FALLBACK" default:"Template_quotes.docx"`
	MaxUploadBytes   int    `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// Load reads the first existing YAML file among CALGEN_CONFIG_FILE,
// config.yaml and configs/config.yaml, then applies environment variables
// on top. Environment values win.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit YAML file. An empty path falls back to
// the default search.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = configFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
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

// applyEnv overlays explicitly set environment variables onto cfg.
// envconfig applies struct defaults to every unset field, so the env pass
// runs on a fresh struct and only fields whose variable is present are
// copied across.
func applyEnv(cfg *Config) error {
	var env Config
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}
	set := func(name string) bool {
		_, ok := os.LookupEnv(EnvPrefix + "_" + name)
		return ok
	}

	if set("SERVER_PORT") {
		cfg.Server.Port = env.Server.Port
	}
	if set("SERVER_READ_TIMEOUT") {
		cfg.Server.ReadTimeout = env.Server.ReadTimeout
	}
	if set("SERVER_WRITE_TIMEOUT") {
		cfg.Server.WriteTimeout = env.Server.WriteTimeout
	}
	if set("SERVER_IDLE_TIMEOUT") {
		cfg.Server.IdleTimeout = env.Server.IdleTimeout
	}
	if set("SERVER_MAX_HEADER_BYTES") {
		cfg.Server.MaxHeaderBytes = env.Server.MaxHeaderBytes
	}
	if set("SERVER_SHUTDOWN_TIMEOUT") {
		cfg.Server.ShutdownTimeout = env.Server.ShutdownTimeout
	}
	if set("SERVER_REQUEST_TIMEOUT") {
		cfg.Server.RequestTimeout = env.Server.RequestTimeout
	}

	if set("SECURITY_ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = env.Security.AllowedOrigins
	}
	if set("SECURITY_ENABLE_CORS") {
		cfg.Security.EnableCORS = env.Security.EnableCORS
	}
	if set("SECURITY_RATE_LIMIT_ENABLED") {
		cfg.Security.RateLimit.Enabled = env.Security.RateLimit.Enabled
	}
	if set("SECURITY_RATE_LIMIT_RPS") {
		cfg.Security.RateLimit.RPS = env.Security.RateLimit.RPS
	}
	if set("SECURITY_RATE_LIMIT_BURST") {
		cfg.Security.RateLimit.Burst = env.Security.RateLimit.Burst
	}

	if set("LOGGING_LEVEL") {
		cfg.Logging.Level = env.Logging.Level
	}
	if set("LOGGING_OUTPUT") {
		cfg.Logging.Output = env.Logging.Output
	}
	if set("LOGGING_FILE_PATH") {
		cfg.Logging.FilePath = env.Logging.FilePath
	}

	if set("TEMPLATES_CALENDAR_PATH") {
		cfg.Templates.CalendarPath = env.Templates.CalendarPath
	}
	if set("TEMPLATES_CALENDAR_FALLBACK") {
		cfg.Templates.CalendarFallback = env.Templates.CalendarFallback
	}
	if set("TEMPLATES_QUOTES_PATH") {
		cfg.Templates.QuotesPath = env.Templates.QuotesPath
	}
	if set("TEMPLATES_QUOTES_FALLBACK") {
		cfg.Templates.QuotesFallback = env.Templates.QuotesFallback
	}
	if set("TEMPLATES_MAX_UPLOAD_BYTES") {
		cfg.Templates.MaxUploadBytes = env.Templates.MaxUploadBytes
	}

	if set("TELEMETRY_ENVIRONMENT") {
		cfg.Telemetry.Environment = env.Telemetry.Environment
	}
	if set("TELEMETRY_TRACE_EXPORTER") {
		cfg.Telemetry.TraceExporter = env.Telemetry.TraceExporter
	}
	if set("TELEMETRY_METRIC_EXPORTER") {
		cfg.Telemetry.MetricExporter = env.Telemetry.MetricExporter
	}
	if set("TELEMETRY_SAMPLE_RATIO") {
		cfg.Telemetry.SampleRatio = env.Telemetry.SampleRatio
	}
	return nil
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

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive")
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Templates.CalendarPath == "" || c.Templates.QuotesPath == "" {
		return fmt.Errorf("template paths must not be empty")
	}
	if filepath.Clean(c.Templates.CalendarPath) == filepath.Clean(c.Templates.QuotesPath) {
		return fmt.Errorf("calendar and quotes templates must use different paths")
	}
	if c.Templates.MaxUploadBytes <= 0 {
		return fmt.Errorf("template max upload bytes must be positive")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}
	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", c.Telemetry.MetricExporter)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0, 1]")
	}

	return nil
}

// configFilePath returns the path to the config file, or "" when none exists
func configFilePath() string {
	locations := []string{
		os.Getenv(EnvPrefix + "_CONFIG_FILE"),
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if location == "" {
			continue
		}
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
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Templates: TemplatesConfig{
			CalendarPath:     DefaultCalendarTemplate,
			CalendarFallback: DefaultCalendarFallback,
			QuotesPath:       DefaultQuotesTemplate,
			QuotesFallback:   DefaultQuotesFallback,
			MaxUploadBytes:   DefaultMaxUploadBytes,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
