// Package telegram implements the message source over MTProto using gotd/td
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/umputun/tgbrief/pkg/domain"
)

// ErrNotAuthorized is returned when the session file holds no authorized user session
var ErrNotAuthorized = errors.New("telegram session is not authorized, run tgbrief --telegram-login")

// Options configures the Source
type Options struct {
	SessionFile     string
	Timeout         time.Duration
	MessagesPerChat int
	Logger          *zap.Logger // passed to gotd, nop if nil
}

// Source reads recent messages of public channels with a user account session
type Source struct {
	opts    Options
	storage *session.FileStorage // shared by all clients, serializes session file access
}

// historyAPI is the subset of tg.Client used to read channel history
type historyAPI interface {
	MessagesGetHistory(ctx context.Context, request *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error)
}

// domainResolver resolves a public username to an input peer
type domainResolver interface {
	ResolveDomain(ctx context.Context, domain string) (tg.InputPeerClass, error)
}

// NewSource makes a Source with defaults applied
func NewSource(opts Options) *Source {
	if opts.SessionFile == "" {
		opts.SessionFile = "session.json"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.MessagesPerChat <= 0 {
		opts.MessagesPerChat = 100
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Source{opts: opts, storage: &session.FileStorage{Path: opts.SessionFile}}
}

// CheckConnection connects with the given credentials and verifies the stored session is authorized
func (s *Source) CheckConnection(ctx context.Context, creds domain.TelegramCredentials) error {
	return s.withClient(ctx, creds, func(ctx context.Context, client *telegram.Client) error {
		return checkAuthorized(ctx, client)
	})
}

// RecentMessages returns text messages posted within window in the given channels, oldest first.
// Channels that can't be resolved or read are logged and skipped, authorization problems fail the call.
func (s *Source) RecentMessages(ctx context.Context, creds domain.TelegramCredentials, channels []string,
	window time.Duration) ([]domain.Message, error) {
	var res []domain.Message
	err := s.withClient(ctx, creds, func(ctx context.Context, client *telegram.Client) error {
		if err := checkAuthorized(ctx, client); err != nil {
			return err
		}
		api := client.API()
		msgs, err := s.collect(ctx, api, peer.DefaultResolver(api), channels, time.Now().Add(-window))
		if err != nil {
			return err
		}
		res = msgs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// withClient runs fn inside a connected client bounded by the configured timeout
func (s *Source) withClient(ctx context.Context, creds domain.TelegramCredentials, fn func(context.Context, *telegram.Client) error) error {
	apiID, err := parseAPIID(creds.APIID)
	if err != nil {
		return err
	}
	if creds.APIHash == "" {
		return errors.New("telegram api hash is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	client := telegram.NewClient(apiID, creds.APIHash, telegram.Options{
		Logger:         s.opts.Logger,
		SessionStorage: s.storage,
	})
	if err := client.Run(ctx, func(ctx context.Context) error { return fn(ctx, client) }); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return err
		}
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

// collect reads history of every channel, skipping channels which fail
func (s *Source) collect(ctx context.Context, api historyAPI, resolver domainResolver, channels []string,
	cutoff time.Time) ([]domain.Message, error) {
	var res []domain.Message
	for _, ch := range channels {
		name := NormalizeChannel(ch)
		if name == "" {
			continue
		}
		msgs, err := s.channelMessages(ctx, api, resolver, name, cutoff)
		if err != nil {
			if auth.IsUnauthorized(err) || ctx.Err() != nil {
				return nil, fmt.Errorf("read channel @%s: %w", name, err)
			}
			log.Printf("[WARN] can't read channel @%s, skipped: %v", name, err)
			continue
		}
		log.Printf("[DEBUG] found %d recent messages in @%s", len(msgs), name)
		res = append(res, msgs...)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res, nil
}

// channelMessages returns text messages of a single channel newer than cutoff
func (s *Source) channelMessages(ctx context.Context, api historyAPI, resolver domainResolver, name string,
	cutoff time.Time) ([]domain.Message, error) {
	inputPeer, err := resolver.ResolveDomain(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if _, ok := inputPeer.(*tg.InputPeerChannel); !ok {
		return nil, fmt.Errorf("@%s is not a channel", name)
	}

	history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{Peer: inputPeer, Limit: s.opts.MessagesPerChat})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return filterMessages(historyMessages(history), name, cutoff), nil
}

// historyMessages extracts raw messages from any history response variant
func historyMessages(history tg.MessagesMessagesClass) []tg.MessageClass {
	switch h := history.(type) {
	case *tg.MessagesMessages:
		return h.Messages
	case *tg.MessagesMessagesSlice:
		return h.Messages
	case *tg.MessagesChannelMessages:
		return h.Messages
	default:
		return nil
	}
}

// filterMessages keeps non-empty text messages posted at or after cutoff
func filterMessages(raw []tg.MessageClass, channel string, cutoff time.Time) []domain.Message {
	res := make([]domain.Message, 0, len(raw))
	for _, m := range raw {
		msg, ok := m.(*tg.Message)
		if !ok || strings.TrimSpace(msg.Message) == "" {
			continue
		}
		if int64(msg.Date) < cutoff.Unix() {
			continue
		}
		res = append(res, domain.Message{
			ID:      int64(msg.ID),
			Text:    msg.Message,
			Date:    int64(msg.Date),
			Channel: channel,
			URL:     fmt.Sprintf("https://t.me/%s/%d", channel, msg.ID),
		})
	}
	return res
}

func checkAuthorized(ctx context.Context, client *telegram.Client) error {
	status, err := client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("auth status: %w", err)
	}
	if !status.Authorized {
		return ErrNotAuthorized
	}
	return nil
}

// NormalizeChannel converts @name, t.me/name and https://t.me/name forms to a bare username
func NormalizeChannel(ch string) string {
	ch = strings.TrimSpace(ch)
	if strings.Contains(ch, "t.me/") {
		if !strings.Contains(ch, "://") {
			ch = "https://" + ch
		}
		if u, err := url.Parse(ch); err == nil {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			ch = parts[0]
			if ch == "s" && len(parts) > 1 {
				ch = parts[1]
			}
		}
	}
	return strings.TrimPrefix(ch, "@")
}

func parseAPIID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid telegram api id %q", s)
	}
	return id, nil
}
