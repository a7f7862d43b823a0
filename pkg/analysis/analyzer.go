package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/tgbrief/pkg/domain"
)

// pipeline checkpoints, shown to the operator while the job runs
const (
	stepConnecting = "Connecting to Telegram..."
	stepCollecting = "Collecting messages from channels..."
	stepProcessing = "Processing content..."
	stepAnalyzing  = "Sending to OpenAI for analysis..."
	stepFinalizing = "Generating final report..."
	stepCompleted  = "Analysis completed"
)

// Analyzer starts analysis jobs and runs each one in its own goroutine.
// A job writes only its own row, jobs started back to back run independently.
type Analyzer struct {
	configs   ConfigurationStore
	jobs      JobManager
	stats     StatisticsManager
	source    MessageSource
	generator ReportGenerator
	wg        sync.WaitGroup
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(params Params) *Analyzer {
	return &Analyzer{
		configs:   params.ConfigurationStore,
		jobs:      params.JobManager,
		stats:     params.StatisticsManager,
		source:    params.MessageSource,
		generator: params.ReportGenerator,
	}
}

// Start validates the configuration, creates a pending job and runs the pipeline in background.
// It returns as soon as the job record exists. Precondition failures are returned as *ValidationError
// and no job is created.
func (a *Analyzer) Start(ctx context.Context) (*domain.Job, error) {
	cfg, err := a.configs.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := checkRunnable(cfg); err != nil {
		return nil, err
	}

	job, err := a.jobs.CreateJob(ctx)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	snapshot := *cfg
	snapshot.Channels = slices.Clone(cfg.Channels)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// the pipeline outlives the request which started it
		a.run(context.WithoutCancel(ctx), job.ID, snapshot)
	}()

	log.Printf("[INFO] analysis job %d started, %d channels, window %v", job.ID, len(snapshot.Channels), snapshot.Window)
	return job, nil
}

// Job returns a job by id
func (a *Analyzer) Job(ctx context.Context, id int64) (*domain.Job, error) {
	return a.jobs.GetJob(ctx, id)
}

// LatestJob returns the most recently started job, nil if none
func (a *Analyzer) LatestJob(ctx context.Context) (*domain.Job, error) {
	return a.jobs.GetLatestJob(ctx)
}

// Jobs returns up to limit jobs, newest first
func (a *Analyzer) Jobs(ctx context.Context, limit int) ([]*domain.Job, error) {
	return a.jobs.GetJobs(ctx, "", normalizeLimit(limit))
}

// CompletedJobs returns up to limit completed jobs with reports, newest first
func (a *Analyzer) CompletedJobs(ctx context.Context, limit int) ([]*domain.Job, error) {
	return a.jobs.GetJobs(ctx, domain.JobCompleted, normalizeLimit(limit))
}

// Statistics returns running totals
func (a *Analyzer) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return a.stats.GetStatistics(ctx)
}

// Shutdown waits for running pipelines to finish or ctx to expire
func (a *Analyzer) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running jobs: %w", ctx.Err())
	}
}

// run executes the pipeline and records a failure for any error or panic
func (a *Analyzer) run(ctx context.Context, jobID int64, cfg domain.Configuration) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] analysis job %d panicked: %v", jobID, r)
			a.fail(ctx, jobID, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	if err := a.pipeline(ctx, jobID, cfg); err != nil {
		log.Printf("[WARN] analysis job %d failed: %v", jobID, err)
		a.fail(ctx, jobID, err.Error())
	}
}

func (a *Analyzer) pipeline(ctx context.Context, jobID int64, cfg domain.Configuration) error {
	if err := a.checkpoint(ctx, jobID, 10, stepConnecting, nil, nil); err != nil {
		return err
	}
	if err := a.source.CheckConnection(ctx, cfg.Telegram); err != nil {
		return fmt.Errorf("telegram connection failed, check telegram credentials in the admin panel: %w", err)
	}

	if err := a.checkpoint(ctx, jobID, 20, stepCollecting, nil, nil); err != nil {
		return err
	}
	msgs, err := a.source.RecentMessages(ctx, cfg.Telegram, cfg.Channels, cfg.Window)
	if err != nil {
		return fmt.Errorf("message collection failed: %w", err)
	}

	// counts are recorded before the emptiness check, a failed job still shows what was collected
	collected, channels := len(msgs), len(cfg.Channels)
	if err := a.checkpoint(ctx, jobID, 50, stepProcessing, &collected, &channels); err != nil {
		return err
	}
	if collected == 0 {
		return fmt.Errorf("%w in the last %d minutes, check channel names or use a larger time window",
			ErrNoMessages, cfg.WindowMinutes())
	}

	if err := a.checkpoint(ctx, jobID, 70, stepAnalyzing, nil, nil); err != nil {
		return err
	}
	report, err := a.generator.GenerateReport(ctx, cfg.OpenAIAPIKey, domain.ReportRequest{
		Messages:       msgs,
		PromptTemplate: cfg.PromptTemplate,
		Window:         cfg.Window,
	})
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}
	if report == nil {
		return errors.New("report generation failed: empty report")
	}

	if err := a.checkpoint(ctx, jobID, 90, stepFinalizing, nil, nil); err != nil {
		return err
	}
	if err := a.jobs.CompleteJob(ctx, jobID, stepCompleted, report); err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	if err := a.stats.IncrementStatistics(ctx, domain.StatisticsDelta{MessagesProcessed: collected, Analyses: 1}); err != nil {
		log.Printf("[WARN] can't update statistics for job %d: %v", jobID, err)
	}
	log.Printf("[INFO] analysis job %d completed, %d messages from %d channels, %d trends",
		jobID, collected, channels, report.TopicCount())
	return nil
}

func (a *Analyzer) checkpoint(ctx context.Context, jobID int64, progress int, step string, collected, channels *int) error {
	err := a.jobs.UpdateJobProgress(ctx, jobID, domain.JobProgress{
		Status:            domain.JobProcessing,
		Progress:          progress,
		Step:              step,
		MessagesCollected: collected,
		ChannelsProcessed: channels,
	})
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	log.Printf("[DEBUG] job %d: %d%% %s", jobID, progress, step)
	return nil
}

func (a *Analyzer) fail(ctx context.Context, jobID int64, msg string) {
	if err := a.jobs.FailJob(ctx, jobID, msg); err != nil {
		log.Printf("[ERROR] can't mark job %d failed: %v", jobID, err)
	}
}

// checkRunnable returns *ValidationError if cfg can't be used to start a job
func checkRunnable(cfg *domain.Configuration) error {
	switch {
	case cfg == nil:
		return &ValidationError{Err: ErrNoConfiguration}
	case !cfg.HasCredentials():
		return &ValidationError{Err: ErrMissingCredentials}
	case len(cfg.Channels) == 0:
		return &ValidationError{Err: ErrNoChannels}
	case cfg.PromptTemplate == "":
		return &ValidationError{Err: ErrNoPromptTemplate}
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return min(limit, 100)
}
