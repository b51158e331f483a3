package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Market      MarketConfig    `toml:"market"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	EODHD       EODHDConfig     `toml:"eodhd"`
	News        NewsConfig      `toml:"news"`
	LLM         LLMConfig       `toml:"llm"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	SMTP        SMTPConfig      `toml:"smtp"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

// MarketConfig carries the calendar and timezone context for the engine.
// Holidays are injectable configuration, not a hardcoded country table.
type MarketConfig struct {
	Timezone string   `toml:"timezone"` // IANA timezone for day windows and the trading-day gate
	Holidays []string `toml:"holidays"` // Non-trading dates as YYYY-MM-DD
}

// SchedulerConfig holds job cadences (standard 5-field cron expressions)
// and tick execution limits.
type SchedulerConfig struct {
	MarketFetchSchedule string `toml:"market_fetch_schedule"` // market snapshot cadence, trading hours
	NewsFetchSchedule   string `toml:"news_fetch_schedule"`   // news snapshot cadence, trading hours
	EndOfDaySchedule    string `toml:"end_of_day_schedule"`   // end-of-day analysis, after market close
	Concurrency         int    `toml:"concurrency"`           // Max concurrent per-symbol fetches within a tick
	CallTimeout         string `toml:"call_timeout"`          // Soft per-call timeout against external capabilities
	AutoStart           bool   `toml:"auto_start"`            // Start the scheduler on boot
}

// EODHDConfig contains EODHD market-data API configuration
type EODHDConfig struct {
	APIKey    string `toml:"api_key"`    // EODHD API key
	BaseURL   string `toml:"base_url"`   // Override for testing; empty uses the public API
	RateLimit int    `toml:"rate_limit"` // Requests per second
	Timeout   string `toml:"timeout"`    // HTTP timeout as duration string
}

// NewsConfig selects and configures the news capability.
type NewsConfig struct {
	Provider string `toml:"provider" validate:"oneof=eodhd rss"` // "eodhd" or "rss"
	FeedURL  string `toml:"feed_url"`                            // RSS feed URL template, %s is the symbol
	Limit    int    `toml:"limit"`                               // Max articles per symbol per tick
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude"
}

// GeminiConfig contains Google Gemini API configuration for AI services
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for analysis (default: "gemini-2.0-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// ClaudeConfig contains Anthropic Claude API configuration for AI services
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for analysis (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// SMTPConfig contains report delivery configuration
type SMTPConfig struct {
	Host     string `toml:"host"`      // SMTP server hostname
	Port     int    `toml:"port"`      // SMTP server port
	Username string `toml:"username"`  // SMTP username (email address)
	Password string `toml:"password"`  // SMTP password or app password
	From     string `toml:"from"`      // From email address
	FromName string `toml:"from_name"` // From display name
	To       string `toml:"to"`        // Report recipient address
	UseTLS   bool   `toml:"use_tls"`   // Use TLS encryption
}

// NewDefaultConfig creates a configuration with default values.
// Default cadences: market data every 5 minutes and news hourly during
// trading hours, end-of-day analysis at 16:00.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Market: MarketConfig{
			Timezone: "UTC",
			Holidays: []string{},
		},
		Scheduler: SchedulerConfig{
			MarketFetchSchedule: "*/5 9-15 * * 1-5",
			NewsFetchSchedule:   "0 9-15 * * 1-5",
			EndOfDaySchedule:    "0 16 * * 1-5",
			Concurrency:         4,
			CallTimeout:         "2m",
			AutoStart:           false,
		},
		EODHD: EODHDConfig{
			APIKey:    "", // User must provide API key (SENTIO_EODHD_API_KEY or config)
			RateLimit: 10,
			Timeout:   "30s",
		},
		News: NewsConfig{
			Provider: "eodhd",
			FeedURL:  "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s",
			Limit:    10,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			Timeout:     "5m",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "5m",
			Temperature: 0.7,
		},
		SMTP: SMTPConfig{
			Port:     587,
			FromName: "Sentio",
			UseTLS:   true,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints and the scheduler cadences.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, schedule := range map[string]string{
		"market_fetch_schedule": c.Scheduler.MarketFetchSchedule,
		"news_fetch_schedule":   c.Scheduler.NewsFetchSchedule,
		"end_of_day_schedule":   c.Scheduler.EndOfDaySchedule,
	} {
		if err := ValidateJobSchedule(schedule); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("invalid market timezone %q: %w", c.Market.Timezone, err)
	}

	for _, day := range c.Market.Holidays {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", day, err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SENTIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("SENTIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SENTIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("SENTIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("SENTIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SENTIO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Market configuration
	if tz := os.Getenv("SENTIO_MARKET_TIMEZONE"); tz != "" {
		config.Market.Timezone = tz
	}

	// Provider keys
	if key := os.Getenv("SENTIO_EODHD_API_KEY"); key != "" {
		config.EODHD.APIKey = key
	}
	if key := os.Getenv("SENTIO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("SENTIO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	// Delivery credentials
	if pw := os.Getenv("SENTIO_SMTP_PASSWORD"); pw != "" {
		config.SMTP.Password = pw
	}
	if to := os.Getenv("SENTIO_SMTP_TO"); to != "" {
		config.SMTP.To = to
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with environment variable priority.
// Resolution order: environment variable -> config fallback -> error.
func ResolveAPIKey(envName, configFallback string) (string, error) {
	if envValue := os.Getenv(envName); envValue != "" {
		return envValue, nil
	}
	if configFallback != "" {
		return configFallback, nil
	}
	return "", fmt.Errorf("API key not found in %s or config", envName)
}

// ValidateJobSchedule validates a standard 5-field cron schedule expression.
func ValidateJobSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
