package server

import (
	"encoding/xml"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/tgbrief/pkg/domain"
)

const (
	defaultRSSLimit = 20
	maxRSSLimit     = 100
)

// rss is the root RSS 2.0 element
type rss struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
}

// rssHandler serves completed reports as RSS feed, newest first.
// Supports ?limit=N, up to 100.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRSSLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = min(l, maxRSSLimit)
		}
	}

	jobs, err := s.analyzer.CompletedJobs(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get reports for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	baseURL := strings.TrimRight(s.config.GetFullConfig().Server.BaseURL, "/")
	feed, err := generateRSS(baseURL, jobs, time.Now())
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// generateRSS creates an RSS 2.0 document from completed jobs, jobs without report are skipped
func generateRSS(baseURL string, jobs []*domain.Job, now time.Time) (string, error) {
	policy := bluemonday.StrictPolicy()
	items := make([]*rssItem, 0, len(jobs))
	for _, job := range jobs {
		if job.Report == nil {
			continue
		}
		items = append(items, reportItem(baseURL, job, policy))
	}

	feed := &rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         "tgbrief - Telegram intelligence reports",
			Link:          baseURL + "/",
			Description:   "Consolidated reports on recent messages from monitored Telegram channels",
			AtomLink:      &atomLink{Href: baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// reportItem converts a completed job into an RSS item with summary and trends as plain text
func reportItem(baseURL string, job *domain.Job, policy *bluemonday.Policy) *rssItem {
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
	}

	published := job.StartedAt
	if job.CompletedAt != nil {
		published = *job.CompletedAt
	}
	rep := job.Report

	var sb strings.Builder
	sb.WriteString(clean(rep.ExecutiveSummary))
	categories := make([]string, 0, len(rep.MainTrends))
	if len(rep.MainTrends) > 0 {
		sb.WriteString("\n\nMain trends:")
		for _, t := range rep.MainTrends {
			title := clean(t.Title)
			categories = append(categories, title)
			fmt.Fprintf(&sb, "\n- %s: %s", title, clean(t.Description))
		}
	}
	fmt.Fprintf(&sb, "\n\nSentiment: %s, confidence %d%%", rep.Sentiment.Overall, rep.Confidence)
	if rep.Metadata.TotalMessages > 0 {
		fmt.Fprintf(&sb, "\nBased on %d messages from %d channels", rep.Metadata.TotalMessages, rep.Metadata.ChannelsAnalyzed)
	}

	return &rssItem{
		Title:       fmt.Sprintf("Report #%d, %s", job.ID, published.UTC().Format("2006-01-02 15:04 MST")),
		Link:        fmt.Sprintf("%s/api/v1/analysis/%d", baseURL, job.ID),
		GUID:        fmt.Sprintf("tgbrief-analysis-%d", job.ID),
		Description: sb.String(),
		PubDate:     published.Format(time.RFC1123Z),
		Categories:  categories,
	}
}
