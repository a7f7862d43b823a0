package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/umputun/tgbrief/pkg/config"
	"github.com/umputun/tgbrief/pkg/domain"
	"github.com/umputun/tgbrief/server/mocks"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "secret"
)

// testConfigProvider returns config provider with admin password stored as a fast bcrypt hash.
// Empty password disables admin routes.
func testConfigProvider(t *testing.T, password string) *mocks.ConfigProviderMock {
	t.Helper()
	cfg := config.Default()
	cfg.Server.BaseURL = "http://example.com"
	cfg.Server.AdminUser = testAdminUser
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.Server.AdminPassword = string(hash)
	}
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
		GetFullConfigFunc:   func() *config.Config { return cfg },
	}
}

// testServer creates a server instance using the actual New function, admin routes enabled
func testServer(t *testing.T, analyzer Analyzer, configs ConfigManager) *Server {
	t.Helper()
	return New(testConfigProvider(t, testAdminPassword), analyzer, configs, "test", false)
}

// serve runs the request through the full router
func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func withAdmin(req *http.Request) *http.Request {
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	return req
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func testStoredConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Telegram:       domain.TelegramCredentials{APIID: "12345", APIHash: "secret-hash", Phone: "+10000000000"},
		OpenAIAPIKey:   "sk-secret",
		Channels:       []string{"news1", "news2"},
		PromptTemplate: "analyze",
		Window:         30 * time.Minute,
		CreatedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func testCompletedJob(id int64) *domain.Job {
	completed := time.Date(2025, 6, 2, 12, 5, 0, 0, time.UTC)
	return &domain.Job{
		ID:                id,
		Status:            domain.JobCompleted,
		Progress:          100,
		CurrentStep:       strPtr("Analysis completed"),
		MessagesCollected: intPtr(5),
		ChannelsProcessed: intPtr(2),
		StartedAt:         completed.Add(-time.Minute),
		CompletedAt:       &completed,
		Report: &domain.Report{
			Version:          domain.ReportVersion,
			ExecutiveSummary: "Markets reacted to <b>rate</b> news",
			MainTrends: []domain.Trend{
				{Title: "Rates", Description: "Central bank kept rates", Impact: "high", Sources: 2},
			},
			HighImpactEvents: []domain.Event{
				{Time: "12:01", Event: "Decision", Description: "Rates unchanged", CrossChannelConfirmation: true},
			},
			Correlations:    []domain.Correlation{{Pattern: "macro", Description: "both channels", Significance: "high"}},
			Sentiment:       domain.Sentiment{Overall: domain.SentimentNeutral, Confidence: 60, Breakdown: "calm"},
			Recommendations: []string{"watch bonds"},
			Confidence:      80,
			Metadata:        domain.Metadata{TotalMessages: 5, ChannelsAnalyzed: 2, Model: "gpt-4o", ProcessingTime: "1.20s"},
		},
	}
}

func testRunningJob(id int64) *domain.Job {
	return &domain.Job{
		ID:          id,
		Status:      domain.JobProcessing,
		Progress:    20,
		CurrentStep: strPtr("Collecting messages from channels..."),
		StartedAt:   time.Now().Add(-5 * time.Second),
	}
}

func TestServer_New(t *testing.T) {
	provider := testConfigProvider(t, "")
	srv := New(provider, &mocks.AnalyzerMock{}, &mocks.ConfigManagerMock{}, "1.0.0", false)
	require.NotNil(t, srv)
	assert.NotEmpty(t, provider.GetFullConfigCalls())
	assert.Empty(t, provider.GetServerConfigCalls(), "listen address read on Run only")
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
	assert.Nil(t, srv.adminHash, "admin disabled without password")

	require.NotNil(t, srv.templates)
	assert.NotNil(t, srv.templates.Lookup(templateJobCard))
	assert.NotNil(t, srv.templates.Lookup("report"))
	assert.NotNil(t, srv.templates.Lookup(templateStats))
	assert.NotNil(t, srv.templates.Lookup(templateAlert))
	assert.NotNil(t, srv.templates.Lookup(templateConnectionStatus))
	assert.Contains(t, srv.pageTemplates, "dashboard.html")
	assert.Contains(t, srv.pageTemplates, "admin.html")

	srv = testServer(t, &mocks.AnalyzerMock{}, &mocks.ConfigManagerMock{})
	assert.NotEmpty(t, srv.adminHash)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := testConfigProvider(t, "")
	cfg.GetServerConfigFunc = func() (string, time.Duration) {
		return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
	}
	srv := New(cfg, &mocks.AnalyzerMock{}, &mocks.ConfigManagerMock{}, "1.0.0", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "tgbrief", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAdminPasswordHash(t *testing.T) {
	assert.Nil(t, adminPasswordHash(""))

	hash := adminPasswordHash("plain-password")
	require.NotNil(t, hash)
	require.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("plain-password")))

	existing, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, existing, adminPasswordHash(string(existing)), "bcrypt hash used as is")
}

func TestTemplateFuncs(t *testing.T) {
	funcs := templateFuncs()

	str := funcs["str"].(func(*string) string)
	assert.Empty(t, str(nil))
	assert.Equal(t, "x", str(strPtr("x")))

	num := funcs["num"].(func(*int) int)
	assert.Equal(t, 0, num(nil))
	assert.Equal(t, 3, num(intPtr(3)))

	fmtTime := funcs["fmtTime"].(func(time.Time) string)
	assert.Equal(t, "never", fmtTime(time.Time{}))

	sentiment := funcs["sentimentClass"].(func(string) string)
	assert.Equal(t, "positive", sentiment("positive"))
	assert.Equal(t, "negative", sentiment("negative"))
	assert.Equal(t, "neutral", sentiment("mixed"))
}
