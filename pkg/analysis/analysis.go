// Package analysis runs the collect-then-summarize pipeline as tracked background jobs
// and manages the operator configuration it depends on.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/umputun/tgbrief/pkg/domain"
)

//go:generate moq -out mocks/message_source.go -pkg mocks -skip-ensure -fmt goimports . MessageSource
//go:generate moq -out mocks/report_generator.go -pkg mocks -skip-ensure -fmt goimports . ReportGenerator
//go:generate moq -out mocks/configuration_store.go -pkg mocks -skip-ensure -fmt goimports . ConfigurationStore
//go:generate moq -out mocks/job_manager.go -pkg mocks -skip-ensure -fmt goimports . JobManager
//go:generate moq -out mocks/statistics_manager.go -pkg mocks -skip-ensure -fmt goimports . StatisticsManager

// MessageSource provides recent channel messages
type MessageSource interface {
	CheckConnection(ctx context.Context, creds domain.TelegramCredentials) error
	RecentMessages(ctx context.Context, creds domain.TelegramCredentials, channels []string, window time.Duration) ([]domain.Message, error)
}

// ReportGenerator turns a message batch into a report
type ReportGenerator interface {
	CheckConnection(ctx context.Context, apiKey string) error
	GenerateReport(ctx context.Context, apiKey string, req domain.ReportRequest) (*domain.Report, error)
}

// ConfigurationStore persists the single active configuration
type ConfigurationStore interface {
	GetConfiguration(ctx context.Context) (*domain.Configuration, error)
	SaveConfiguration(ctx context.Context, cfg *domain.Configuration) error
}

// JobManager persists analysis jobs
type JobManager interface {
	CreateJob(ctx context.Context) (*domain.Job, error)
	UpdateJobProgress(ctx context.Context, id int64, p domain.JobProgress) error
	CompleteJob(ctx context.Context, id int64, step string, report *domain.Report) error
	FailJob(ctx context.Context, id int64, errMsg string) error
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	GetLatestJob(ctx context.Context) (*domain.Job, error)
	GetJobs(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error)
}

// StatisticsManager maintains running totals
type StatisticsManager interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
	IncrementStatistics(ctx context.Context, delta domain.StatisticsDelta) error
	SetActiveChannels(ctx context.Context, n int) error
}

// Params holds dependencies of Analyzer and ConfigManager
type Params struct {
	ConfigurationStore ConfigurationStore
	JobManager         JobManager
	StatisticsManager  StatisticsManager
	MessageSource      MessageSource
	ReportGenerator    ReportGenerator

	DefaultPromptTemplate string        // used for newly created configurations
	DefaultWindow         time.Duration // used for newly created configurations
}

// precondition errors, returned wrapped in *ValidationError
var (
	ErrNoConfiguration    = errors.New("no configuration found, configure credentials in the admin panel first")
	ErrMissingCredentials = errors.New("telegram api id, api hash, phone and openai api key are required")
	ErrNoChannels         = errors.New("no channels configured, add at least one channel in the admin panel")
	ErrNoPromptTemplate   = errors.New("prompt template is empty")
	ErrInvalidWindow      = errors.New("time window must be between 1 and 1440 minutes")
)

// ErrNoMessages is recorded when collection returns nothing for the window
var ErrNoMessages = errors.New("no messages found")

// ValidationError is returned when a request can't be served with the current input or configuration.
// No job is created and nothing is saved.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
