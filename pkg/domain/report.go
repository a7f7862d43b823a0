package domain

import (
	"errors"
	"fmt"
	"time"
)

// ReportVersion is the current report format version
const ReportVersion = 1

// Sentiment values
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Report is a consolidated intelligence briefing produced by the report generator
type Report struct {
	Version          int           `json:"version"`
	ExecutiveSummary string        `json:"executive_summary"`
	MainTrends       []Trend       `json:"main_trends"`
	HighImpactEvents []Event       `json:"high_impact_events"`
	Correlations     []Correlation `json:"correlations"`
	Sentiment        Sentiment     `json:"sentiment"`
	Recommendations  []string      `json:"recommendations"`
	Confidence       int           `json:"confidence"`
	Metadata         Metadata      `json:"metadata"`
}

// Trend is a topic observed across one or more channels
type Trend struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Sources     int    `json:"sources"`
}

// Event is a single high impact event
type Event struct {
	Time                     string `json:"time"`
	Event                    string `json:"event"`
	Description              string `json:"description"`
	CrossChannelConfirmation bool   `json:"cross_channel_confirmation"`
}

// Correlation links pieces of information across channels
type Correlation struct {
	Pattern      string `json:"pattern"`
	Description  string `json:"description"`
	Significance string `json:"significance"`
}

// Sentiment is the overall tone of the analyzed messages
type Sentiment struct {
	Overall    string `json:"overall"`
	Confidence int    `json:"confidence"`
	Breakdown  string `json:"breakdown"`
}

// Metadata is filled by the generator, not by the model
type Metadata struct {
	TotalMessages    int    `json:"total_messages"`
	ChannelsAnalyzed int    `json:"channels_analyzed"`
	TimeRange        string `json:"time_range"`
	ProcessingTime   string `json:"processing_time"`
	Model            string `json:"model"`
}

// ReportRequest is the input of a report generator
type ReportRequest struct {
	Messages       []Message
	PromptTemplate string
	Window         time.Duration
}

// Validate checks the report is usable and normalizes bounded fields
func (r *Report) Validate() error {
	if r.Version != ReportVersion {
		return fmt.Errorf("unsupported report version %d", r.Version)
	}
	if r.ExecutiveSummary == "" {
		return errors.New("executive summary is empty")
	}
	for i, t := range r.MainTrends {
		if t.Title == "" {
			return fmt.Errorf("trend %d has no title", i+1)
		}
	}
	switch r.Sentiment.Overall {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	case "":
		r.Sentiment.Overall = SentimentNeutral
	default:
		return fmt.Errorf("invalid sentiment %q", r.Sentiment.Overall)
	}
	r.Confidence = clamp(r.Confidence, 0, 100)
	r.Sentiment.Confidence = clamp(r.Sentiment.Confidence, 0, 100)
	return nil
}

// TopicCount returns the number of trends in the report
func (r *Report) TopicCount() int {
	return len(r.MainTrends)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
