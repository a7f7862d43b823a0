// Package llm generates intelligence reports from channel messages with an OpenAI compatible API
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/tgbrief/pkg/config"
	"github.com/umputun/tgbrief/pkg/domain"
)

// ErrNoMessages is returned when a report is requested for an empty batch
var ErrNoMessages = errors.New("no messages to analyze")

// maxMessageLen limits a single message in the prompt, in runes
const maxMessageLen = 400

// DefaultPromptTemplate is used for new configurations when no template is configured.
// It is a text/template, see promptData for available fields.
const DefaultPromptTemplate = `You are an expert intelligence analyst. Analyze the following {{.TotalMessages}} Telegram messages from {{.ChannelCount}} public channels collected in the last {{.WindowMinutes}} minutes.

CRITICAL: Generate a CONSOLIDATED intelligence report that aggregates all information across channels. Do NOT separate analysis by individual channels.

Analysis requirements:
1. AGGREGATE all information, do not separate by channel
2. IDENTIFY cross-channel patterns and correlations
3. PRIORITIZE events by impact and cross-source validation
4. CORRELATE timestamps to identify event sequences
5. FOCUS on intelligence value, not channel-by-channel summaries`

const defaultSystemPrompt = `You are an expert intelligence analyst. Analyze the provided Telegram messages and generate a comprehensive intelligence report in JSON format. Focus on identifying trends, patterns and actionable insights. Write the report in the language most of the messages are written in.`

// Reporter turns message batches into structured reports
type Reporter struct {
	config    config.LLMConfig
	systemMsg string
	policy    *bluemonday.Policy
	now       func() time.Time
}

// promptData is available to prompt templates
type promptData struct {
	TotalMessages int
	ChannelCount  int
	Channels      []string
	WindowMinutes int
}

// NewReporter creates a new report generator
func NewReporter(cfg config.LLMConfig) *Reporter {
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	schema, err := payloadSchema()
	if err == nil {
		systemMsg += "\n\nRespond with a single JSON object matching this JSON schema:\n" + schema
	}
	return &Reporter{
		config:    cfg,
		systemMsg: systemMsg,
		policy:    bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// CheckConnection verifies the API key by listing available models
func (r *Reporter) CheckConnection(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return errors.New("openai api key is empty")
	}
	if _, err := r.client(apiKey).ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// GenerateReport asks the model for a consolidated report on req.Messages.
// The returned report is validated and has metadata filled locally.
func (r *Reporter) GenerateReport(ctx context.Context, apiKey string, req domain.ReportRequest) (*domain.Report, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}
	if apiKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	started := r.now()

	prompt, err := r.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       r.config.Model,
		Temperature: float32(r.config.Temperature),
		MaxTokens:   r.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if !r.config.NoJSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := r.client(apiKey).CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from llm")
	}

	report, err := r.parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = r.config.Model
	}
	report.Metadata = domain.Metadata{
		TotalMessages:    len(req.Messages),
		ChannelsAnalyzed: domain.CountChannels(req.Messages),
		TimeRange:        timeRange(req.Messages),
		ProcessingTime:   fmt.Sprintf("%.2fs", r.now().Sub(started).Seconds()),
		Model:            model,
	}
	return report, nil
}

// buildPrompt renders the prompt template and appends messages in chronological order
func (r *Reporter) buildPrompt(req domain.ReportRequest) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(req.PromptTemplate)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	msgs := make([]domain.Message, len(req.Messages))
	copy(msgs, req.Messages)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Date < msgs[j].Date })

	var channels []string
	seen := map[string]bool{}
	for _, m := range msgs {
		if !seen[m.Channel] {
			seen[m.Channel] = true
			channels = append(channels, m.Channel)
		}
	}

	var sb strings.Builder
	data := promptData{
		TotalMessages: len(msgs),
		ChannelCount:  len(channels),
		Channels:      channels,
		WindowMinutes: int(req.Window / time.Minute),
	}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}

	sb.WriteString("\n\nALL MESSAGES (analyze as one consolidated dataset):\n\n")
	for i, m := range msgs {
		sb.WriteString(fmt.Sprintf("%d. [%s] [@%s] %s\n", i+1, m.Time().Format("15:04"), m.Channel, r.cleanText(m.Text, maxMessageLen)))
		if m.LinkedContent != "" {
			sb.WriteString(fmt.Sprintf("   Linked article: %s\n", r.cleanText(m.LinkedContent, 0)))
		}
	}
	return sb.String(), nil
}

// parseResponse converts the model output into a validated report
func (r *Reporter) parseResponse(content string) (*domain.Report, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}
	var p reportPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to parse json object response: %w", err)
	}

	report := &domain.Report{
		Version:          domain.ReportVersion,
		ExecutiveSummary: strings.TrimSpace(p.ExecutiveSummary),
		MainTrends:       make([]domain.Trend, 0, len(p.MainTrends)),
		HighImpactEvents: make([]domain.Event, 0, len(p.HighImpactEvents)),
		Correlations:     make([]domain.Correlation, 0, len(p.Correlations)),
		Recommendations:  p.Recommendations,
		Confidence:       75,
		Sentiment: domain.Sentiment{
			Overall: domain.SentimentNeutral, Confidence: 50, Breakdown: "No sentiment data available"},
	}
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}
	if p.Confidence != nil {
		report.Confidence = int(*p.Confidence)
	}
	for _, t := range p.MainTrends {
		report.MainTrends = append(report.MainTrends, domain.Trend{
			Title: t.Title, Description: t.Description, Impact: t.Impact, Sources: int(t.Sources)})
	}
	for _, e := range p.HighImpactEvents {
		report.HighImpactEvents = append(report.HighImpactEvents, domain.Event{
			Time: e.Timestamp, Event: e.Event, Description: e.Description, CrossChannelConfirmation: bool(e.CrossChannelConfirmation)})
	}
	for _, c := range p.Correlations {
		report.Correlations = append(report.Correlations, domain.Correlation(c))
	}
	if p.Sentiment != nil {
		report.Sentiment = domain.Sentiment{
			Overall:    strings.ToLower(strings.TrimSpace(p.Sentiment.Overall)),
			Confidence: int(p.Sentiment.Confidence),
			Breakdown:  p.Sentiment.Breakdown,
		}
	}

	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	return report, nil
}

// cleanText strips markup and limits text to maxLen runes, 0 means no limit
func (r *Reporter) cleanText(s string, maxLen int) string {
	s = html.UnescapeString(r.policy.Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	if maxLen > 0 {
		if runes := []rune(s); len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
	}
	return s
}

func (r *Reporter) client(apiKey string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if r.config.Endpoint != "" {
		clientConfig.BaseURL = r.config.Endpoint
	}
	if r.config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: r.config.Timeout}
	}
	return openai.NewClientWithConfig(clientConfig)
}

// timeRange formats the span of message timestamps
func timeRange(msgs []domain.Message) string {
	if len(msgs) == 0 {
		return "No messages"
	}
	earliest, latest := msgs[0].Date, msgs[0].Date
	for _, m := range msgs[1:] {
		earliest = min(earliest, m.Date)
		latest = max(latest, m.Date)
	}
	return time.Unix(earliest, 0).UTC().Format(time.RFC3339) + " - " + time.Unix(latest, 0).UTC().Format(time.RFC3339)
}

// payloadSchema returns the JSON schema of the expected model output
func payloadSchema() (string, error) {
	reflector := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true, AllowAdditionalProperties: true}
	schema := reflector.Reflect(&reportPayload{})
	schema.Version = ""
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}
