package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tgbrief/pkg/domain"
)

const (
	minWindow     = time.Minute
	maxWindow     = 24 * time.Hour
	defaultWindow = time.Hour
)

// ConfigManager reads, merges and validates the operator configuration
type ConfigManager struct {
	configs       ConfigurationStore
	stats         StatisticsManager
	source        MessageSource
	generator     ReportGenerator
	defaultPrompt string
	defaultWindow time.Duration
}

// NewConfigManager creates a new ConfigManager
func NewConfigManager(params Params) *ConfigManager {
	window := params.DefaultWindow
	if window == 0 {
		window = defaultWindow
	}
	return &ConfigManager{
		configs:       params.ConfigurationStore,
		stats:         params.StatisticsManager,
		source:        params.MessageSource,
		generator:     params.ReportGenerator,
		defaultPrompt: params.DefaultPromptTemplate,
		defaultWindow: window,
	}
}

// Get returns the stored configuration, nil if none was saved yet
func (m *ConfigManager) Get(ctx context.Context) (*domain.Configuration, error) {
	cfg, err := m.configs.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

// Save merges upd into the stored configuration, or creates it, and returns the result.
// Blank secrets and nil fields keep stored values. Invalid input is returned as *ValidationError.
func (m *ConfigManager) Save(ctx context.Context, upd domain.ConfigurationUpdate) (*domain.Configuration, error) {
	current, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil && !updateHasCredentials(upd) {
		return nil, &ValidationError{Err: ErrMissingCredentials}
	}

	cfg := m.merge(current, upd)
	if cfg.Window < minWindow || cfg.Window > maxWindow {
		return nil, &ValidationError{Err: ErrInvalidWindow}
	}

	if err := m.configs.SaveConfiguration(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("save configuration: %w", err)
	}
	if err := m.stats.SetActiveChannels(ctx, len(cfg.Channels)); err != nil {
		log.Printf("[WARN] can't update active channels: %v", err)
	}
	log.Printf("[INFO] configuration saved, %d channels, window %v", len(cfg.Channels), cfg.Window)

	return m.Get(ctx)
}

// Merged returns the stored configuration with upd applied, without saving it.
// A missing configuration is treated as empty.
func (m *ConfigManager) Merged(ctx context.Context, upd domain.ConfigurationUpdate) (domain.Configuration, error) {
	current, err := m.Get(ctx)
	if err != nil {
		return domain.Configuration{}, err
	}
	return m.merge(current, upd), nil
}

// TestConnection probes the message source and the report generator concurrently.
// Errors and panics are reported as false with a message, it never fails.
func (m *ConfigManager) TestConnection(ctx context.Context, cfg domain.Configuration) domain.ConnectionStatus {
	var status domain.ConnectionStatus
	var g errgroup.Group

	g.Go(func() error {
		if !cfg.Telegram.Complete() {
			status.SourceError = "telegram api id, api hash and phone are required"
			return nil
		}
		if err := safeCall(func() error { return m.source.CheckConnection(ctx, cfg.Telegram) }); err != nil {
			status.SourceError = err.Error()
			return nil
		}
		status.SourceOK = true
		return nil
	})

	g.Go(func() error {
		if cfg.OpenAIAPIKey == "" {
			status.GeneratorError = "openai api key is required"
			return nil
		}
		if err := safeCall(func() error { return m.generator.CheckConnection(ctx, cfg.OpenAIAPIKey) }); err != nil {
			status.GeneratorError = err.Error()
			return nil
		}
		status.GeneratorOK = true
		return nil
	})

	_ = g.Wait() // goroutines never return errors
	log.Printf("[INFO] connection test, telegram: %v, openai: %v", status.SourceOK, status.GeneratorOK)
	return status
}

// Bootstrap seeds the configuration on startup. Does nothing if a configuration
// already exists or upd lacks credentials.
func (m *ConfigManager) Bootstrap(ctx context.Context, upd domain.ConfigurationUpdate) error {
	current, err := m.Get(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		log.Printf("[DEBUG] configuration exists, skip bootstrap")
		return nil
	}
	if !updateHasCredentials(upd) {
		log.Printf("[DEBUG] no credentials in application config, skip bootstrap")
		return nil
	}
	if _, err := m.Save(ctx, upd); err != nil {
		return fmt.Errorf("bootstrap configuration: %w", err)
	}
	log.Printf("[INFO] configuration bootstrapped from application config")
	return nil
}

// merge applies upd on top of current, which may be nil
func (m *ConfigManager) merge(current *domain.Configuration, upd domain.ConfigurationUpdate) domain.Configuration {
	var cfg domain.Configuration
	if current != nil {
		cfg = *current
		cfg.Channels = append([]string{}, current.Channels...)
	} else {
		cfg = domain.Configuration{
			Channels:       []string{},
			PromptTemplate: m.defaultPrompt,
			Window:         m.defaultWindow,
		}
	}

	keep := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	keep(&cfg.Telegram.APIID, upd.TelegramAPIID)
	keep(&cfg.Telegram.APIHash, upd.TelegramAPIHash)
	keep(&cfg.Telegram.Phone, upd.TelegramPhone)
	keep(&cfg.OpenAIAPIKey, upd.OpenAIAPIKey)

	if upd.Channels != nil {
		cfg.Channels = domain.NormalizeChannels(*upd.Channels)
	}
	if upd.PromptTemplate != nil {
		cfg.PromptTemplate = *upd.PromptTemplate
	}
	if upd.WindowMinutes != nil {
		cfg.Window = time.Duration(*upd.WindowMinutes) * time.Minute
	}
	return cfg
}

func updateHasCredentials(upd domain.ConfigurationUpdate) bool {
	for _, v := range []string{upd.TelegramAPIID, upd.TelegramAPIHash, upd.TelegramPhone, upd.OpenAIAPIKey} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// safeCall runs fn and converts a panic into an error
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return fn()
}
