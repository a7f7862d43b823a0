package domain

import "time"

// Statistics holds running totals across all analyses
type Statistics struct {
	ActiveChannels    int       `json:"active_channels"`
	MessagesProcessed int       `json:"messages_processed"`
	Analyses          int       `json:"ai_analyses"`
	LastUpdate        time.Time `json:"last_update"`
}

// StatisticsDelta is an additive update, negative values are ignored
type StatisticsDelta struct {
	MessagesProcessed int
	Analyses          int
}
