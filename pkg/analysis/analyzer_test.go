package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tgbrief/pkg/analysis/mocks"
	"github.com/umputun/tgbrief/pkg/domain"
)

// jobRecorder keeps jobs in memory with the same guards as the sql repository
type jobRecorder struct {
	mu       sync.Mutex
	jobs     map[int64]*domain.Job
	progress map[int64][]int
	nextID   int64
}

func newJobRecorder() *jobRecorder {
	return &jobRecorder{jobs: map[int64]*domain.Job{}, progress: map[int64][]int{}}
}

func (r *jobRecorder) mock() *mocks.JobManagerMock {
	return &mocks.JobManagerMock{
		CreateJobFunc: func(ctx context.Context) (*domain.Job, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.nextID++
			job := &domain.Job{ID: r.nextID, Status: domain.JobPending, StartedAt: time.Now()}
			r.jobs[job.ID] = job
			r.progress[job.ID] = []int{0}
			res := *job
			return &res, nil
		},
		UpdateJobProgressFunc: func(ctx context.Context, id int64, p domain.JobProgress) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			job := r.jobs[id]
			if job.Status.Terminal() {
				return errors.New("job finished")
			}
			job.Status = p.Status
			job.Progress = max(job.Progress, p.Progress)
			step := p.Step
			job.CurrentStep = &step
			if p.MessagesCollected != nil {
				job.MessagesCollected = p.MessagesCollected
			}
			if p.ChannelsProcessed != nil {
				job.ChannelsProcessed = p.ChannelsProcessed
			}
			r.progress[id] = append(r.progress[id], job.Progress)
			return nil
		},
		CompleteJobFunc: func(ctx context.Context, id int64, step string, report *domain.Report) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			job := r.jobs[id]
			now := time.Now()
			job.Status, job.Progress, job.CurrentStep, job.Report, job.CompletedAt = domain.JobCompleted, 100, &step, report, &now
			r.progress[id] = append(r.progress[id], 100)
			return nil
		},
		FailJobFunc: func(ctx context.Context, id int64, errMsg string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			job := r.jobs[id]
			now := time.Now()
			job.Status, job.Progress, job.Error, job.CompletedAt = domain.JobFailed, 100, &errMsg, &now
			r.progress[id] = append(r.progress[id], 100)
			return nil
		},
		GetJobFunc: func(ctx context.Context, id int64) (*domain.Job, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			res := *r.jobs[id]
			return &res, nil
		},
	}
}

func (r *jobRecorder) job(id int64) domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.jobs[id]
}

func (r *jobRecorder) history(id int64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.progress[id]...)
}

func testConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Telegram:       domain.TelegramCredentials{APIID: "12345", APIHash: "hash", Phone: "+10000000000"},
		OpenAIAPIKey:   "sk-test",
		Channels:       []string{"news1", "news2"},
		PromptTemplate: "analyze {{.TotalMessages}} messages",
		Window:         60 * time.Minute,
	}
}

func testMessages() []domain.Message {
	now := time.Now().Unix()
	return []domain.Message{
		{ID: 1, Channel: "news1", Text: "first", Date: now - 300},
		{ID: 2, Channel: "news1", Text: "second", Date: now - 200},
		{ID: 3, Channel: "news1", Text: "third", Date: now - 100},
		{ID: 10, Channel: "news2", Text: "fourth", Date: now - 250},
		{ID: 11, Channel: "news2", Text: "fifth", Date: now - 50},
	}
}

func testGeneratedReport() *domain.Report {
	return &domain.Report{
		Version:          domain.ReportVersion,
		ExecutiveSummary: "summary",
		MainTrends:       []domain.Trend{{Title: "trend", Description: "desc", Impact: "high", Sources: 2}},
		HighImpactEvents: []domain.Event{},
		Correlations:     []domain.Correlation{},
		Recommendations:  []string{},
		Sentiment:        domain.Sentiment{Overall: domain.SentimentNeutral, Confidence: 50},
		Confidence:       80,
	}
}

type analyzerFixture struct {
	configs   *mocks.ConfigurationStoreMock
	jobs      *jobRecorder
	stats     *mocks.StatisticsManagerMock
	source    *mocks.MessageSourceMock
	generator *mocks.ReportGeneratorMock
	analyzer  *Analyzer
}

func newAnalyzerFixture(cfg *domain.Configuration) *analyzerFixture {
	f := &analyzerFixture{
		configs: &mocks.ConfigurationStoreMock{
			GetConfigurationFunc: func(ctx context.Context) (*domain.Configuration, error) { return cfg, nil },
		},
		jobs: newJobRecorder(),
		stats: &mocks.StatisticsManagerMock{
			IncrementStatisticsFunc: func(ctx context.Context, delta domain.StatisticsDelta) error { return nil },
		},
		source: &mocks.MessageSourceMock{
			CheckConnectionFunc: func(ctx context.Context, creds domain.TelegramCredentials) error { return nil },
			RecentMessagesFunc: func(ctx context.Context, creds domain.TelegramCredentials, channels []string,
				window time.Duration) ([]domain.Message, error) {
				return testMessages(), nil
			},
		},
		generator: &mocks.ReportGeneratorMock{
			GenerateReportFunc: func(ctx context.Context, apiKey string, req domain.ReportRequest) (*domain.Report, error) {
				return testGeneratedReport(), nil
			},
		},
	}
	f.analyzer = NewAnalyzer(Params{
		ConfigurationStore: f.configs,
		JobManager:         f.jobs.mock(),
		StatisticsManager:  f.stats,
		MessageSource:      f.source,
		ReportGenerator:    f.generator,
	})
	return f
}

func (f *analyzerFixture) runJob(t *testing.T) domain.Job {
	t.Helper()
	job, err := f.analyzer.Start(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, domain.JobPending, job.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.analyzer.Shutdown(ctx))
	return f.jobs.job(job.ID)
}

func TestAnalyzer_Start_Success(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	job := f.runJob(t)

	assert.Equal(t, domain.JobCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.MessagesCollected)
	require.NotNil(t, job.ChannelsProcessed)
	assert.Equal(t, 5, *job.MessagesCollected)
	assert.Equal(t, 2, *job.ChannelsProcessed)
	require.NotNil(t, job.Report)
	assert.Equal(t, 1, job.Report.TopicCount())
	assert.Nil(t, job.Error)
	require.NotNil(t, job.CurrentStep)
	assert.Equal(t, "Analysis completed", *job.CurrentStep)
	assert.NotNil(t, job.CompletedAt)

	assert.Equal(t, []int{0, 10, 20, 50, 70, 90, 100}, f.jobs.history(job.ID))

	require.Len(t, f.stats.IncrementStatisticsCalls(), 1)
	assert.Equal(t, domain.StatisticsDelta{MessagesProcessed: 5, Analyses: 1}, f.stats.IncrementStatisticsCalls()[0].Delta)

	require.Len(t, f.source.RecentMessagesCalls(), 1)
	call := f.source.RecentMessagesCalls()[0]
	assert.Equal(t, []string{"news1", "news2"}, call.Channels)
	assert.Equal(t, 60*time.Minute, call.Window)
	assert.Equal(t, "12345", call.Creds.APIID)

	require.Len(t, f.generator.GenerateReportCalls(), 1)
	genCall := f.generator.GenerateReportCalls()[0]
	assert.Equal(t, "sk-test", genCall.ApiKey)
	assert.Len(t, genCall.Req.Messages, 5)
	assert.Equal(t, "analyze {{.TotalMessages}} messages", genCall.Req.PromptTemplate)
}

func TestAnalyzer_Start_Preconditions(t *testing.T) {
	full := testConfiguration()
	noChannels := testConfiguration()
	noChannels.Channels = []string{}
	noCreds := testConfiguration()
	noCreds.OpenAIAPIKey = ""
	noPrompt := testConfiguration()
	noPrompt.PromptTemplate = ""

	tests := []struct {
		name    string
		cfg     *domain.Configuration
		wantErr error
	}{
		{name: "no configuration", cfg: nil, wantErr: ErrNoConfiguration},
		{name: "no channels", cfg: noChannels, wantErr: ErrNoChannels},
		{name: "missing credentials", cfg: noCreds, wantErr: ErrMissingCredentials},
		{name: "empty prompt", cfg: noPrompt, wantErr: ErrNoPromptTemplate},
		{name: "valid", cfg: full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAnalyzerFixture(tt.cfg)
			job, err := f.analyzer.Start(context.Background())
			require.NoError(t, f.analyzer.Shutdown(context.Background()))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, job)
				return
			}
			require.Error(t, err)
			assert.Nil(t, job)
			require.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Empty(t, f.jobs.jobs, "no job created")
		})
	}
}

func TestAnalyzer_Start_StorageErrors(t *testing.T) {
	t.Run("configuration load", func(t *testing.T) {
		f := newAnalyzerFixture(nil)
		f.configs.GetConfigurationFunc = func(ctx context.Context) (*domain.Configuration, error) {
			return nil, errors.New("db is down")
		}
		_, err := f.analyzer.Start(context.Background())
		require.Error(t, err)
		var verr *ValidationError
		assert.NotErrorAs(t, err, &verr)
		assert.Contains(t, err.Error(), "db is down")
	})

	t.Run("job create", func(t *testing.T) {
		cfg := testConfiguration()
		jobs := &mocks.JobManagerMock{
			CreateJobFunc: func(ctx context.Context) (*domain.Job, error) { return nil, errors.New("disk full") },
		}
		a := NewAnalyzer(Params{
			ConfigurationStore: &mocks.ConfigurationStoreMock{
				GetConfigurationFunc: func(ctx context.Context) (*domain.Configuration, error) { return cfg, nil },
			},
			JobManager: jobs,
		})
		_, err := a.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create job: disk full")
	})
}

func TestAnalyzer_ZeroMessages(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.source.RecentMessagesFunc = func(ctx context.Context, creds domain.TelegramCredentials, channels []string,
		window time.Duration) ([]domain.Message, error) {
		return []domain.Message{}, nil
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Nil(t, job.Report)
	require.NotNil(t, job.Error)
	assert.Contains(t, *job.Error, "no messages found in the last 60 minutes")
	require.NotNil(t, job.MessagesCollected)
	assert.Equal(t, 0, *job.MessagesCollected)
	assert.Empty(t, f.generator.GenerateReportCalls())
	assert.Empty(t, f.stats.IncrementStatisticsCalls())
}

func TestAnalyzer_ConnectionFailure(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.source.CheckConnectionFunc = func(ctx context.Context, creds domain.TelegramCredentials) error {
		return errors.New("auth key unregistered")
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Contains(t, *job.Error, "telegram connection failed")
	assert.Contains(t, *job.Error, "auth key unregistered")
	assert.Nil(t, job.MessagesCollected)
	assert.Empty(t, f.source.RecentMessagesCalls())
	assert.Equal(t, []int{0, 10, 100}, f.jobs.history(job.ID))
}

func TestAnalyzer_CollectionFailure(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.source.RecentMessagesFunc = func(ctx context.Context, creds domain.TelegramCredentials, channels []string,
		window time.Duration) ([]domain.Message, error) {
		return nil, errors.New("flood wait")
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "message collection failed: flood wait", *job.Error)
}

func TestAnalyzer_GeneratorFailureKeepsCounts(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.generator.GenerateReportFunc = func(ctx context.Context, apiKey string, req domain.ReportRequest) (*domain.Report, error) {
		return nil, errors.New("rate limit exceeded")
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.Error)
	assert.Contains(t, *job.Error, "rate limit exceeded")
	assert.Nil(t, job.Report)
	require.NotNil(t, job.MessagesCollected)
	require.NotNil(t, job.ChannelsProcessed)
	assert.Equal(t, 5, *job.MessagesCollected)
	assert.Equal(t, 2, *job.ChannelsProcessed)
	assert.Empty(t, f.stats.IncrementStatisticsCalls())
	assert.Equal(t, []int{0, 10, 20, 50, 70, 100}, f.jobs.history(job.ID))
}

func TestAnalyzer_PanicRecovered(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.generator.GenerateReportFunc = func(ctx context.Context, apiKey string, req domain.ReportRequest) (*domain.Report, error) {
		panic("boom")
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "unexpected error: boom", *job.Error)
}

func TestAnalyzer_StatisticsFailureDoesNotFailJob(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	f.stats.IncrementStatisticsFunc = func(ctx context.Context, delta domain.StatisticsDelta) error {
		return errors.New("locked")
	}

	job := f.runJob(t)
	assert.Equal(t, domain.JobCompleted, job.Status)
	assert.Len(t, f.stats.IncrementStatisticsCalls(), 1)
}

func TestAnalyzer_PipelineOutlivesRequestContext(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	release := make(chan struct{})
	f.source.CheckConnectionFunc = func(ctx context.Context, creds domain.TelegramCredentials) error {
		<-release
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	job, err := f.analyzer.Start(ctx)
	require.NoError(t, err)
	cancel()
	close(release)

	require.NoError(t, f.analyzer.Shutdown(context.Background()))
	assert.Equal(t, domain.JobCompleted, f.jobs.job(job.ID).Status)
}

func TestAnalyzer_ConfigurationSnapshot(t *testing.T) {
	cfg := testConfiguration()
	f := newAnalyzerFixture(cfg)
	release := make(chan struct{})
	f.source.CheckConnectionFunc = func(ctx context.Context, creds domain.TelegramCredentials) error {
		<-release
		return nil
	}

	_, err := f.analyzer.Start(context.Background())
	require.NoError(t, err)
	cfg.Channels[0] = "changed"
	close(release)
	require.NoError(t, f.analyzer.Shutdown(context.Background()))

	require.Len(t, f.source.RecentMessagesCalls(), 1)
	assert.Equal(t, []string{"news1", "news2"}, f.source.RecentMessagesCalls()[0].Channels)
}

func TestAnalyzer_ConcurrentJobs(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())

	ids := make([]int64, 0, 3)
	for range 3 {
		job, err := f.analyzer.Start(context.Background())
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}
	require.NoError(t, f.analyzer.Shutdown(context.Background()))

	assert.Equal(t, []int64{1, 2, 3}, ids)
	for _, id := range ids {
		job := f.jobs.job(id)
		assert.Equal(t, domain.JobCompleted, job.Status, "job %d", id)
		assert.Equal(t, []int{0, 10, 20, 50, 70, 90, 100}, f.jobs.history(id))
	}
	assert.Len(t, f.stats.IncrementStatisticsCalls(), 3)
}

func TestAnalyzer_Shutdown_Timeout(t *testing.T) {
	f := newAnalyzerFixture(testConfiguration())
	release := make(chan struct{})
	f.source.CheckConnectionFunc = func(ctx context.Context, creds domain.TelegramCredentials) error {
		<-release
		return nil
	}
	_, err := f.analyzer.Start(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = f.analyzer.Shutdown(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, f.analyzer.Shutdown(context.Background()))
}

func TestAnalyzer_ReadOperations(t *testing.T) {
	jobs := &mocks.JobManagerMock{
		GetJobFunc: func(ctx context.Context, id int64) (*domain.Job, error) {
			return &domain.Job{ID: id, Status: domain.JobProcessing}, nil
		},
		GetLatestJobFunc: func(ctx context.Context) (*domain.Job, error) {
			return &domain.Job{ID: 7, Status: domain.JobCompleted}, nil
		},
		GetJobsFunc: func(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error) {
			return []*domain.Job{{ID: 2}, {ID: 1}}, nil
		},
	}
	stats := &mocks.StatisticsManagerMock{
		GetStatisticsFunc: func(ctx context.Context) (*domain.Statistics, error) {
			return &domain.Statistics{ActiveChannels: 3, MessagesProcessed: 40, Analyses: 2}, nil
		},
	}
	a := NewAnalyzer(Params{JobManager: jobs, StatisticsManager: stats})
	ctx := context.Background()

	job, err := a.Job(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), job.ID)

	latest, err := a.LatestJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), latest.ID)

	_, err = a.Jobs(ctx, 0)
	require.NoError(t, err)
	_, err = a.Jobs(ctx, 500)
	require.NoError(t, err)
	_, err = a.CompletedJobs(ctx, 10)
	require.NoError(t, err)

	calls := jobs.GetJobsCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, domain.JobStatus(""), calls[0].Status)
	assert.Equal(t, 20, calls[0].Limit)
	assert.Equal(t, 100, calls[1].Limit)
	assert.Equal(t, domain.JobCompleted, calls[2].Status)
	assert.Equal(t, 10, calls[2].Limit)

	st, err := a.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, st.MessagesProcessed)
}
