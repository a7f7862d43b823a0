package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen        string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL       string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL used in RSS links"`
		AdminUser     string        `yaml:"admin_user" json:"admin_user" jsonschema:"default=admin,description=Basic auth user for admin routes"`
		AdminPassword string        `yaml:"admin_password" json:"admin_password" jsonschema:"description=Basic auth password for admin routes, admin routes are disabled if empty"`
		StartRate     float64       `yaml:"start_rate" json:"start_rate" jsonschema:"default=0.2,description=Allowed analysis starts per second per client"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:tgbrief.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram MTProto client configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for report generation"`

	Analysis AnalysisConfig `yaml:"analysis" json:"analysis" jsonschema:"description=Defaults for new analysis configurations"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Linked content extraction configuration"`
}

// TelegramConfig holds the MTProto client settings and optional bootstrap credentials
type TelegramConfig struct {
	SessionFile      string        `yaml:"session_file" json:"session_file" jsonschema:"default=session.json,description=Path to MTProto session storage"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=Timeout for a single collection run"`
	MessagesPerChat  int           `yaml:"messages_per_chat" json:"messages_per_chat" jsonschema:"default=100,description=Maximum number of messages read per channel"`
	BootstrapAPIID   string        `yaml:"api_id" json:"api_id" jsonschema:"description=Telegram API ID used to seed an empty configuration"`
	BootstrapAPIHash string        `yaml:"api_hash" json:"api_hash" jsonschema:"description=Telegram API hash used to seed an empty configuration"`
	BootstrapPhone   string        `yaml:"phone" json:"phone" jsonschema:"description=Telegram phone used to seed an empty configuration"`
}

// LLMConfig holds LLM configuration for report generation
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key used to seed an empty configuration (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4000,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	NoJSONMode   bool          `yaml:"no_json_mode" json:"no_json_mode" jsonschema:"default=false,description=Disable JSON response format for models without support"`
}

// AnalysisConfig holds defaults applied when the operator configuration is created
type AnalysisConfig struct {
	Window         time.Duration `yaml:"window" json:"window" jsonschema:"default=20m,description=Default trailing time window for message collection"`
	PromptTemplate string        `yaml:"prompt_template" json:"prompt_template" jsonschema:"description=Default prompt template (optional)"`
	Channels       []string      `yaml:"channels" json:"channels" jsonschema:"description=Channels used to seed an empty configuration"`
}

// ExtractionConfig holds linked content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable extraction of links found in messages"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Extraction timeout per link"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=5,description=Maximum concurrent extractions"`
	MaxLength     int           `yaml:"max_length" json:"max_length" jsonschema:"default=1000,description=Maximum extracted characters kept per message"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=tgbrief/1.0,description=User agent for HTTP requests"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults set, used when no config file is given
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Server.AdminUser == "" {
		c.Server.AdminUser = "admin"
	}
	if c.Server.StartRate == 0 {
		c.Server.StartRate = 0.2
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:tgbrief.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// telegram
	if c.Telegram.SessionFile == "" {
		c.Telegram.SessionFile = "session.json"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 2 * time.Minute
	}
	if c.Telegram.MessagesPerChat == 0 {
		c.Telegram.MessagesPerChat = 100
	}

	// llm
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}

	// analysis
	if c.Analysis.Window == 0 {
		c.Analysis.Window = 20 * time.Minute
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 15 * time.Second
	}
	if c.Extraction.MaxConcurrent == 0 {
		c.Extraction.MaxConcurrent = 5
	}
	if c.Extraction.MaxLength == 0 {
		c.Extraction.MaxLength = 1000
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "tgbrief/1.0"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	if cfg.Analysis.Window < time.Minute || cfg.Analysis.Window > 24*time.Hour {
		return fmt.Errorf("analysis.window must be between 1m and 24h")
	}
	if cfg.Telegram.MessagesPerChat < 1 {
		return fmt.Errorf("telegram.messages_per_chat must be positive")
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MaxLength < 0 {
			return fmt.Errorf("extraction max_length must be non-negative")
		}
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.StartRate < 0 {
		return fmt.Errorf("server.start_rate must be non-negative")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFullConfig returns the whole configuration
func (c *Config) GetFullConfig() *Config {
	return c
}

// GetBaseURL returns the public base URL
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}

// Secrets returns configured secret values to be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.Server.AdminPassword, c.LLM.APIKey, c.Telegram.BootstrapAPIHash} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
