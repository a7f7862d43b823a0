package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tgbrief/pkg/domain"
)

// ConfigurationRepository stores the single active operator configuration
type ConfigurationRepository struct {
	db *sqlx.DB
}

// configurationSQL represents the configuration row for SQL operations
type configurationSQL struct {
	TelegramAPIID   string      `db:"telegram_api_id"`
	TelegramAPIHash string      `db:"telegram_api_hash"`
	TelegramPhone   string      `db:"telegram_phone"`
	OpenAIAPIKey    string      `db:"openai_api_key"`
	Channels        channelsSQL `db:"channels"`
	PromptTemplate  string      `db:"prompt_template"`
	WindowMinutes   int         `db:"window_minutes"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

// NewConfigurationRepository creates a new configuration repository
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// GetConfiguration returns the active configuration, nil if none was saved yet
func (r *ConfigurationRepository) GetConfiguration(ctx context.Context) (*domain.Configuration, error) {
	var row configurationSQL
	err := r.db.GetContext(ctx, &row, `
		SELECT telegram_api_id, telegram_api_hash, telegram_phone, openai_api_key,
		       channels, prompt_template, window_minutes, created_at, updated_at
		FROM configurations WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return row.toDomain(), nil
}

// SaveConfiguration inserts or replaces the active configuration, keeping the original creation time
func (r *ConfigurationRepository) SaveConfiguration(ctx context.Context, cfg *domain.Configuration) error {
	now := time.Now().UTC()
	row := configurationSQL{
		TelegramAPIID:   cfg.Telegram.APIID,
		TelegramAPIHash: cfg.Telegram.APIHash,
		TelegramPhone:   cfg.Telegram.Phone,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		Channels:        channelsSQL(cfg.Channels),
		PromptTemplate:  cfg.PromptTemplate,
		WindowMinutes:   cfg.WindowMinutes(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	query := `
		INSERT INTO configurations (
			id, telegram_api_id, telegram_api_hash, telegram_phone, openai_api_key,
			channels, prompt_template, window_minutes, created_at, updated_at
		) VALUES (
			1, :telegram_api_id, :telegram_api_hash, :telegram_phone, :openai_api_key,
			:channels, :prompt_template, :window_minutes, :created_at, :updated_at
		)
		ON CONFLICT(id) DO UPDATE SET
			telegram_api_id = excluded.telegram_api_id,
			telegram_api_hash = excluded.telegram_api_hash,
			telegram_phone = excluded.telegram_phone,
			openai_api_key = excluded.openai_api_key,
			channels = excluded.channels,
			prompt_template = excluded.prompt_template,
			window_minutes = excluded.window_minutes,
			updated_at = excluded.updated_at
	`
	return withLockRetry(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("save configuration: %w", err)}
		}
		return nil
	})
}

func (c configurationSQL) toDomain() *domain.Configuration {
	channels := []string(c.Channels)
	if channels == nil {
		channels = []string{}
	}
	return &domain.Configuration{
		Telegram: domain.TelegramCredentials{
			APIID:   c.TelegramAPIID,
			APIHash: c.TelegramAPIHash,
			Phone:   c.TelegramPhone,
		},
		OpenAIAPIKey:   c.OpenAIAPIKey,
		Channels:       channels,
		PromptTemplate: c.PromptTemplate,
		Window:         time.Duration(c.WindowMinutes) * time.Minute,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
