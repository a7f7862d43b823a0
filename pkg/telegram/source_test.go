package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tgbrief/pkg/domain"
)

type fakeResolver map[string]tg.InputPeerClass

func (f fakeResolver) ResolveDomain(_ context.Context, name string) (tg.InputPeerClass, error) {
	p, ok := f[name]
	if !ok {
		return nil, errors.New("USERNAME_NOT_OCCUPIED")
	}
	return p, nil
}

type fakeHistory struct {
	byChannel map[int64]tg.MessagesMessagesClass
	requests  []*tg.MessagesGetHistoryRequest
}

func (f *fakeHistory) MessagesGetHistory(_ context.Context, req *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error) {
	f.requests = append(f.requests, req)
	ch, ok := req.Peer.(*tg.InputPeerChannel)
	if !ok {
		return nil, errors.New("unexpected peer")
	}
	res, ok := f.byChannel[ch.ChannelID]
	if !ok {
		return nil, errors.New("CHANNEL_PRIVATE")
	}
	return res, nil
}

func TestNormalizeChannel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"durov", "durov"},
		{"@durov", "durov"},
		{"  @durov ", "durov"},
		{"t.me/durov", "durov"},
		{"https://t.me/durov", "durov"},
		{"https://t.me/durov/123", "durov"},
		{"https://t.me/s/durov", "durov"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeChannel(tt.in))
		})
	}
}

func TestParseAPIID(t *testing.T) {
	id, err := parseAPIID(" 12345 ")
	require.NoError(t, err)
	assert.Equal(t, 12345, id)

	_, err = parseAPIID("abc")
	require.Error(t, err)
	_, err = parseAPIID("-1")
	require.Error(t, err)
	_, err = parseAPIID("")
	require.Error(t, err)
}

func TestFilterMessages(t *testing.T) {
	now := time.Now()
	cutoff := now.Add(-20 * time.Minute)
	raw := []tg.MessageClass{
		&tg.Message{ID: 3, Message: "fresh", Date: int(now.Add(-time.Minute).Unix())},
		&tg.Message{ID: 2, Message: "   ", Date: int(now.Add(-2 * time.Minute).Unix())},
		&tg.MessageService{ID: 4, Date: int(now.Unix())},
		&tg.Message{ID: 1, Message: "old", Date: int(now.Add(-time.Hour).Unix())},
	}

	msgs := filterMessages(raw, "news", cutoff)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(3), msgs[0].ID)
	assert.Equal(t, "fresh", msgs[0].Text)
	assert.Equal(t, "news", msgs[0].Channel)
	assert.Equal(t, "https://t.me/news/3", msgs[0].URL)
}

func TestHistoryMessages(t *testing.T) {
	msgs := []tg.MessageClass{&tg.Message{ID: 1}}
	assert.Len(t, historyMessages(&tg.MessagesMessages{Messages: msgs}), 1)
	assert.Len(t, historyMessages(&tg.MessagesMessagesSlice{Messages: msgs}), 1)
	assert.Len(t, historyMessages(&tg.MessagesChannelMessages{Messages: msgs}), 1)
	assert.Empty(t, historyMessages(&tg.MessagesMessagesNotModified{}))
}

func TestSource_Collect(t *testing.T) {
	now := time.Now()
	resolver := fakeResolver{
		"first":   &tg.InputPeerChannel{ChannelID: 1, AccessHash: 11},
		"second":  &tg.InputPeerChannel{ChannelID: 2, AccessHash: 22},
		"private": &tg.InputPeerChannel{ChannelID: 3, AccessHash: 33},
		"someone": &tg.InputPeerUser{UserID: 4},
	}
	history := &fakeHistory{byChannel: map[int64]tg.MessagesMessagesClass{
		1: &tg.MessagesChannelMessages{Messages: []tg.MessageClass{
			&tg.Message{ID: 10, Message: "first new", Date: int(now.Add(-time.Minute).Unix())},
			&tg.Message{ID: 9, Message: "first old", Date: int(now.Add(-time.Hour).Unix())},
		}},
		2: &tg.MessagesChannelMessages{Messages: []tg.MessageClass{
			&tg.Message{ID: 5, Message: "second", Date: int(now.Add(-5 * time.Minute).Unix())},
		}},
	}}

	src := NewSource(Options{MessagesPerChat: 50})
	msgs, err := src.collect(context.Background(), history, resolver,
		[]string{"@first", "https://t.me/second", "missing", "private", "someone", " "}, now.Add(-20*time.Minute))
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Text, "sorted oldest first")
	assert.Equal(t, "first new", msgs[1].Text)
	assert.Equal(t, []domain.Message{
		{ID: 5, Text: "second", Date: msgs[0].Date, Channel: "second", URL: "https://t.me/second/5"},
		{ID: 10, Text: "first new", Date: msgs[1].Date, Channel: "first", URL: "https://t.me/first/10"},
	}, msgs)

	require.Len(t, history.requests, 3)
	assert.Equal(t, 50, history.requests[0].Limit)
}

func TestSource_CollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewSource(Options{})
	history := &fakeHistory{byChannel: map[int64]tg.MessagesMessagesClass{}}
	_, err := src.collect(ctx, history, fakeResolver{"a": &tg.InputPeerChannel{ChannelID: 1}}, []string{"a"}, time.Now())
	require.Error(t, err)
}

func TestSource_InvalidCredentials(t *testing.T) {
	src := NewSource(Options{SessionFile: t.TempDir() + "/session.json", Timeout: time.Second})

	err := src.CheckConnection(context.Background(), domain.TelegramCredentials{APIID: "abc", APIHash: "h", Phone: "+1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telegram api id")

	_, err = src.RecentMessages(context.Background(), domain.TelegramCredentials{APIID: "1", Phone: "+1"}, []string{"a"}, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api hash is empty")

	err = src.Login(context.Background(), domain.TelegramCredentials{APIID: "1", APIHash: "h"}, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone is empty")
}

func TestNewSource_Defaults(t *testing.T) {
	src := NewSource(Options{})
	assert.Equal(t, "session.json", src.opts.SessionFile)
	assert.Equal(t, 2*time.Minute, src.opts.Timeout)
	assert.Equal(t, 100, src.opts.MessagesPerChat)
	assert.NotNil(t, src.opts.Logger)
}

func TestSource_SharedSessionStorage(t *testing.T) {
	path := t.TempDir() + "/session.json"
	src := NewSource(Options{SessionFile: path})
	require.NotNil(t, src.storage)
	assert.Equal(t, path, src.storage.Path)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, src.storage.StoreSession(context.Background(), []byte(fmt.Sprintf(`{"n":%d}`, i))))
		}()
	}
	wg.Wait()

	data, err := src.storage.LoadSession(context.Background())
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "session file not interleaved: %s", data)
}
