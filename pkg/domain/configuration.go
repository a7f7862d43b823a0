package domain

import (
	"strings"
	"time"
)

// TelegramCredentials holds MTProto application credentials and the account phone
type TelegramCredentials struct {
	APIID   string `json:"api_id"`
	APIHash string `json:"api_hash"`
	Phone   string `json:"phone"`
}

// Complete reports whether all credential fields are set
func (c TelegramCredentials) Complete() bool {
	return c.APIID != "" && c.APIHash != "" && c.Phone != ""
}

// Configuration is the single active operator configuration
type Configuration struct {
	Telegram       TelegramCredentials `json:"telegram"`
	OpenAIAPIKey   string              `json:"openai_api_key"`
	Channels       []string            `json:"channels"`
	PromptTemplate string              `json:"prompt_template"`
	Window         time.Duration       `json:"-"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// WindowMinutes returns the collection window in whole minutes
func (c *Configuration) WindowMinutes() int {
	return int(c.Window / time.Minute)
}

// HasCredentials reports whether both telegram and openai credentials are present
func (c *Configuration) HasCredentials() bool {
	return c.Telegram.Complete() && c.OpenAIAPIKey != ""
}

// View returns the public projection without secrets
func (c *Configuration) View() ConfigurationView {
	return ConfigurationView{
		Channels:       c.Channels,
		PromptTemplate: c.PromptTemplate,
		WindowMinutes:  c.WindowMinutes(),
		HasCredentials: c.HasCredentials(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ConfigurationView is the configuration as shown to unauthenticated callers
type ConfigurationView struct {
	Channels       []string  `json:"channels"`
	PromptTemplate string    `json:"prompt_template"`
	WindowMinutes  int       `json:"window_minutes"`
	HasCredentials bool      `json:"has_credentials"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ConfigurationUpdate carries a partial configuration change.
// Empty secret strings keep the stored value, nil pointers keep the stored non-secret value.
type ConfigurationUpdate struct {
	TelegramAPIID   string    `json:"telegram_api_id"`
	TelegramAPIHash string    `json:"telegram_api_hash"`
	TelegramPhone   string    `json:"telegram_phone"`
	OpenAIAPIKey    string    `json:"openai_api_key"`
	Channels        *[]string `json:"channels,omitempty"`
	PromptTemplate  *string   `json:"prompt_template,omitempty"`
	WindowMinutes   *int      `json:"window_minutes,omitempty"`
}

// Empty reports whether the update carries no fields at all
func (u ConfigurationUpdate) Empty() bool {
	return u.TelegramAPIID == "" && u.TelegramAPIHash == "" && u.TelegramPhone == "" && u.OpenAIAPIKey == "" &&
		u.Channels == nil && u.PromptTemplate == nil && u.WindowMinutes == nil
}

// NormalizeChannels trims channel identifiers and drops blank ones, keeping order and duplicates
func NormalizeChannels(channels []string) []string {
	res := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch = strings.TrimSpace(ch); ch != "" {
			res = append(res, ch)
		}
	}
	return res
}

// ConnectionStatus is the result of probing both collaborators
type ConnectionStatus struct {
	SourceOK       bool   `json:"source_ok"`
	GeneratorOK    bool   `json:"generator_ok"`
	SourceError    string `json:"source_error,omitempty"`
	GeneratorError string `json:"generator_error,omitempty"`
}

// OK reports whether both probes succeeded
func (s ConnectionStatus) OK() bool {
	return s.SourceOK && s.GeneratorOK
}
