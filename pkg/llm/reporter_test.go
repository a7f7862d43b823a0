package llm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tgbrief/pkg/config"
	"github.com/umputun/tgbrief/pkg/domain"
)

const validReportJSON = `{
  "executiveSummary": "Central banks signal a pause while energy prices climb.",
  "mainTrends": [
    {"title": "Rates on hold", "description": "Two channels report no change", "impact": "medium", "sources": "2"}
  ],
  "highImpactEvents": [
    {"timestamp": "10:05", "event": "Oil jumps", "description": "Brent above 90", "crossChannelConfirmation": "true"}
  ],
  "correlations": [
    {"pattern": "energy and rates", "description": "higher oil delays cuts", "significance": "high"}
  ],
  "sentimentAnalysis": {"overall": "Negative", "confidence": "65", "breakdown": "mostly cautious"},
  "recommendations": ["hedge energy exposure"],
  "confidence": 120
}`

func testMessages() []domain.Message {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Unix()
	return []domain.Message{
		{ID: 2, Channel: "markets", Text: "<b>Oil</b> jumps &amp; Brent above 90", Date: base + 300},
		{ID: 1, Channel: "economy", Text: "Central bank keeps rates", Date: base},
		{ID: 3, Channel: "markets", Text: strings.Repeat("x", 500), Date: base + 600, LinkedContent: "full article text"},
	}
}

func newTestServer(t *testing.T, content string, check func(req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/models":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{{ID: "gpt-4o"}}})
		case "/v1/chat/completions":
			var req openai.ChatCompletionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if check != nil {
				check(req)
			}
			resp := openai.ChatCompletionResponse{
				Model:   "gpt-4o-2024-08-06",
				Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testConfig(serverURL string) config.LLMConfig {
	return config.LLMConfig{
		Endpoint:    serverURL + "/v1",
		Model:       "gpt-4o",
		Temperature: 0.3,
		MaxTokens:   4000,
		Timeout:     5 * time.Second,
	}
}

func TestReporter_GenerateReport(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := newTestServer(t, validReportJSON, func(req openai.ChatCompletionRequest) { captured = req })
	defer server.Close()

	reporter := NewReporter(testConfig(server.URL))
	report, err := reporter.GenerateReport(context.Background(), "test-key", domain.ReportRequest{
		Messages:       testMessages(),
		PromptTemplate: DefaultPromptTemplate,
		Window:         20 * time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReportVersion, report.Version)
	assert.Equal(t, "Central banks signal a pause while energy prices climb.", report.ExecutiveSummary)
	require.Len(t, report.MainTrends, 1)
	assert.Equal(t, domain.Trend{Title: "Rates on hold", Description: "Two channels report no change", Impact: "medium", Sources: 2}, report.MainTrends[0])
	require.Len(t, report.HighImpactEvents, 1)
	assert.True(t, report.HighImpactEvents[0].CrossChannelConfirmation)
	assert.Equal(t, "10:05", report.HighImpactEvents[0].Time)
	require.Len(t, report.Correlations, 1)
	assert.Equal(t, "energy and rates", report.Correlations[0].Pattern)
	assert.Equal(t, domain.SentimentNegative, report.Sentiment.Overall)
	assert.Equal(t, 65, report.Sentiment.Confidence)
	assert.Equal(t, []string{"hedge energy exposure"}, report.Recommendations)
	assert.Equal(t, 100, report.Confidence, "clamped")
	assert.Equal(t, 1, report.TopicCount())

	assert.Equal(t, 3, report.Metadata.TotalMessages)
	assert.Equal(t, 2, report.Metadata.ChannelsAnalyzed)
	assert.Equal(t, "2024-05-01T10:00:00Z - 2024-05-01T10:10:00Z", report.Metadata.TimeRange)
	assert.Equal(t, "gpt-4o-2024-08-06", report.Metadata.Model)
	assert.True(t, strings.HasSuffix(report.Metadata.ProcessingTime, "s"))

	// request shape
	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 4000, captured.MaxTokens)
	assert.InEpsilon(t, 0.3, captured.Temperature, 0.001)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[0].Content, "JSON schema")
	assert.Contains(t, captured.Messages[0].Content, "executiveSummary")

	prompt := captured.Messages[1].Content
	assert.Contains(t, prompt, "Analyze the following 3 Telegram messages from 2 public channels collected in the last 20 minutes")
	assert.Contains(t, prompt, "[@economy] Central bank keeps rates")
	assert.Contains(t, prompt, "[@markets] Oil jumps & Brent above 90", "markup stripped and entities decoded")
	assert.Contains(t, prompt, strings.Repeat("x", 400)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 401))
	assert.Contains(t, prompt, "Linked article: full article text")
	assert.Less(t, strings.Index(prompt, "Central bank keeps rates"), strings.Index(prompt, "Oil jumps"), "chronological order")
}

func TestReporter_GenerateReport_Defaults(t *testing.T) {
	server := newTestServer(t, "Here is the report:\n```json\n{\"executiveSummary\": \"quiet hour\"}\n```", nil)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.NoJSONMode = true
	report, err := NewReporter(cfg).GenerateReport(context.Background(), "test-key", domain.ReportRequest{
		Messages: testMessages()[:1], PromptTemplate: "plain prompt without fields", Window: time.Hour})
	require.NoError(t, err)

	assert.Equal(t, "quiet hour", report.ExecutiveSummary)
	assert.Empty(t, report.MainTrends)
	assert.NotNil(t, report.MainTrends)
	assert.NotNil(t, report.Recommendations)
	assert.Equal(t, 75, report.Confidence)
	assert.Equal(t, domain.SentimentNeutral, report.Sentiment.Overall)
	assert.Equal(t, 50, report.Sentiment.Confidence)
}

func TestReporter_GenerateReport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		template string
		wantErr  string
	}{
		{name: "not json", content: "sorry, I can't help", template: "x", wantErr: "no json object found"},
		{name: "broken json", content: `{"executiveSummary": }`, template: "x", wantErr: "failed to parse json"},
		{name: "missing summary", content: `{"mainTrends": []}`, template: "x", wantErr: "executive summary is empty"},
		{name: "bad sentiment", content: `{"executiveSummary": "s", "sentimentAnalysis": {"overall": "ecstatic"}}`, template: "x", wantErr: "invalid sentiment"},
		{name: "bad template", content: validReportJSON, template: "{{.Broken", wantErr: "parse prompt template"},
		{name: "unknown template field", content: validReportJSON, template: "{{.Unknown}}", wantErr: "render prompt template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.content, nil)
			defer server.Close()
			_, err := NewReporter(testConfig(server.URL)).GenerateReport(context.Background(), "test-key",
				domain.ReportRequest{Messages: testMessages(), PromptTemplate: tt.template, Window: time.Minute})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("no messages", func(t *testing.T) {
		_, err := NewReporter(config.LLMConfig{}).GenerateReport(context.Background(), "test-key", domain.ReportRequest{})
		require.ErrorIs(t, err, ErrNoMessages)
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
		}))
		defer server.Close()
		_, err := NewReporter(testConfig(server.URL)).GenerateReport(context.Background(), "test-key",
			domain.ReportRequest{Messages: testMessages(), PromptTemplate: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm request failed")
		assert.Contains(t, err.Error(), "Incorrect API key provided")
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
		}))
		defer server.Close()
		_, err := NewReporter(testConfig(server.URL)).GenerateReport(context.Background(), "test-key",
			domain.ReportRequest{Messages: testMessages(), PromptTemplate: "x"})
		require.EqualError(t, err, "no response from llm")
	})
}

func TestReporter_CheckConnection(t *testing.T) {
	server := newTestServer(t, "", nil)
	defer server.Close()

	reporter := NewReporter(testConfig(server.URL))
	require.NoError(t, reporter.CheckConnection(context.Background(), "test-key"))

	err := reporter.CheckConnection(context.Background(), "")
	require.Error(t, err)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer failing.Close()
	err = NewReporter(testConfig(failing.URL)).CheckConnection(context.Background(), "test-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list models")
}

func TestFlexTypes(t *testing.T) {
	var v struct {
		A flexInt  `json:"a"`
		B flexInt  `json:"b"`
		C flexInt  `json:"c"`
		D flexBool `json:"d"`
		E flexBool `json:"e"`
		F flexBool `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 3, "b": "85%", "c": "7.9", "d": true, "e": "TRUE", "f": "false"}`), &v))
	assert.Equal(t, flexInt(3), v.A)
	assert.Equal(t, flexInt(85), v.B)
	assert.Equal(t, flexInt(7), v.C)
	assert.True(t, bool(v.D))
	assert.True(t, bool(v.E))
	assert.False(t, bool(v.F))

	require.Error(t, json.Unmarshal([]byte(`{"a": "many"}`), &v))

	require.NoError(t, json.Unmarshal([]byte(`{"a": 1e30, "b": "-1e30", "c": -2.7}`), &v))
	assert.Equal(t, flexInt(math.MaxInt32), v.A, "saturated")
	assert.Equal(t, flexInt(math.MinInt32), v.B, "saturated")
	assert.Equal(t, flexInt(-2), v.C)
}

func TestReporter_ParseResponseHugeConfidence(t *testing.T) {
	reporter := NewReporter(testConfig("http://localhost"))
	report, err := reporter.parseResponse(`{"executiveSummary": "quiet", "confidence": 1e30,
		"sentiment": {"overall": "positive", "confidence": -1e30}}`)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Confidence)
	assert.Equal(t, 0, report.Sentiment.Confidence)
}

func TestPayloadSchema(t *testing.T) {
	schema, err := payloadSchema()
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(schema), &parsed))
	props, ok := parsed["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"executiveSummary", "mainTrends", "highImpactEvents", "correlations", "sentimentAnalysis", "recommendations", "confidence"} {
		assert.Contains(t, props, key)
	}
}
