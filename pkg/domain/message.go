package domain

import "time"

// Message is a single channel post collected by a message source
type Message struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	Date          int64  `json:"date"` // unix seconds
	Channel       string `json:"channel"`
	URL           string `json:"url,omitempty"`
	LinkedContent string `json:"linked_content,omitempty"`
}

// Time returns the message timestamp
func (m Message) Time() time.Time {
	return time.Unix(m.Date, 0)
}

// CountChannels returns the number of distinct channels in messages
func CountChannels(messages []Message) int {
	seen := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		seen[m.Channel] = struct{}{}
	}
	return len(seen)
}
