package content

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tgbrief/pkg/domain"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Source provides recent channel messages
type Source interface {
	CheckConnection(ctx context.Context, creds domain.TelegramCredentials) error
	RecentMessages(ctx context.Context, creds domain.TelegramCredentials, channels []string, window time.Duration) ([]domain.Message, error)
}

// Extractor returns readable text of a web page
type Extractor interface {
	Extract(ctx context.Context, urlStr string) (string, error)
}

// EnricherOptions configures the Enricher
type EnricherOptions struct {
	Timeout       time.Duration // per link
	MaxConcurrent int
	MaxLength     int // in runes, 0 means unlimited
}

// Enricher wraps a Source and attaches extracted text of the first external link to each message.
// Extraction failures are logged and ignored, the message is passed through unchanged.
type Enricher struct {
	Source
	extractor Extractor
	opts      EnricherOptions
}

var linkRe = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)

// NewEnricher makes an Enricher over src
func NewEnricher(src Source, extractor Extractor, opts EnricherOptions) *Enricher {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Enricher{Source: src, extractor: extractor, opts: opts}
}

// RecentMessages returns messages of the wrapped source with linked content attached
func (e *Enricher) RecentMessages(ctx context.Context, creds domain.TelegramCredentials, channels []string,
	window time.Duration) ([]domain.Message, error) {
	msgs, err := e.Source.RecentMessages(ctx, creds, channels, window)
	if err != nil || len(msgs) == 0 {
		return msgs, err
	}

	var links []string
	seen := make(map[string]bool)
	for _, m := range msgs {
		if link := externalLink(m.Text); link != "" && !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	}
	if len(links) == 0 {
		return msgs, nil
	}

	var mu sync.Mutex
	extracted := make(map[string]string, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.MaxConcurrent)
	for _, link := range links {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, e.opts.Timeout)
			defer cancel()
			text, err := e.extractor.Extract(lctx, link)
			if err != nil {
				log.Printf("[DEBUG] can't extract %s: %v", link, err)
				return nil
			}
			mu.Lock()
			extracted[link] = truncate(text, e.opts.MaxLength)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // extraction errors are not propagated

	enriched := 0
	for i := range msgs {
		if text := extracted[externalLink(msgs[i].Text)]; text != "" {
			msgs[i].LinkedContent = text
			enriched++
		}
	}
	log.Printf("[DEBUG] enriched %d of %d messages with linked content", enriched, len(msgs))
	return msgs, nil
}

// externalLink returns the first http(s) link in text which doesn't point to telegram itself
func externalLink(text string) string {
	for _, candidate := range linkRe.FindAllString(text, -1) {
		candidate = strings.TrimRight(candidate, ".,;:!?")
		u, err := url.Parse(candidate)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if host == "t.me" || host == "telegram.me" || host == "telegram.org" {
			continue
		}
		return candidate
	}
	return ""
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxRunes])) + "..."
}
