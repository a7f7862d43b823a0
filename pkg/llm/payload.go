package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// reportPayload is the JSON object the model is asked to produce.
// Numeric and boolean fields accept strings as well, models often quote them.
type reportPayload struct {
	ExecutiveSummary string               `json:"executiveSummary" jsonschema:"description=Consolidated overview of all key findings across all sources"`
	MainTrends       []trendPayload       `json:"mainTrends" jsonschema:"description=Primary trends found across channels"`
	HighImpactEvents []eventPayload       `json:"highImpactEvents" jsonschema:"description=High impact events in chronological order"`
	Correlations     []correlationPayload `json:"correlations" jsonschema:"description=Patterns connecting information across channels"`
	Sentiment        *sentimentPayload    `json:"sentimentAnalysis" jsonschema:"description=Overall sentiment of the analyzed messages"`
	Recommendations  []string             `json:"recommendations" jsonschema:"description=Actionable recommendations based on the consolidated analysis"`
	Confidence       *flexInt             `json:"confidence" jsonschema:"minimum=0,maximum=100,description=Overall confidence in the analysis"`
}

type trendPayload struct {
	Title       string  `json:"title" jsonschema:"description=Primary trend title"`
	Description string  `json:"description" jsonschema:"description=Cross-channel analysis of this trend"`
	Impact      string  `json:"impact" jsonschema:"description=Assessment of significance and potential impact"`
	Sources     flexInt `json:"sources" jsonschema:"description=Number of channels reporting this trend"`
}

type eventPayload struct {
	Timestamp                string   `json:"timestamp" jsonschema:"description=Time of the event in HH:MM format"`
	Event                    string   `json:"event" jsonschema:"description=Brief event title"`
	Description              string   `json:"description" jsonschema:"description=Detailed description with cross-channel validation"`
	CrossChannelConfirmation flexBool `json:"crossChannelConfirmation" jsonschema:"description=True if multiple channels reported this event"`
}

type correlationPayload struct {
	Pattern      string `json:"pattern" jsonschema:"description=Correlation pattern identified"`
	Description  string `json:"description" jsonschema:"description=How different pieces of information connect"`
	Significance string `json:"significance" jsonschema:"description=Why this correlation matters"`
}

type sentimentPayload struct {
	Overall    string  `json:"overall" jsonschema:"enum=positive,enum=neutral,enum=negative"`
	Confidence flexInt `json:"confidence" jsonschema:"minimum=0,maximum=100"`
	Breakdown  string  `json:"breakdown" jsonschema:"description=Sentiment analysis across all content"`
}

// flexInt decodes from a JSON number or a string holding a number
type flexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = toFlexInt(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = toFlexInt(v)
	return nil
}

// toFlexInt truncates v toward zero, saturating at the int range, NaN becomes 0
func toFlexInt(v float64) flexInt {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return flexInt(v)
}

// flexBool decodes from a JSON bool or a string like "true"
type flexBool bool

// UnmarshalJSON implements json.Unmarshaler
func (f *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		*f = flexBool(s == "true" || s == "yes" || strings.HasPrefix(s, "true"))
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexBool(v)
	return nil
}

// extractJSONObject returns the outermost JSON object in content, models sometimes wrap it in prose or fences
func extractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return "", fmt.Errorf("no json object found in response")
	}
	return content[start : end+1], nil
}
