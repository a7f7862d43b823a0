package telegram

import (
	"context"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"github.com/umputun/tgbrief/pkg/domain"
)

// CodePrompt asks the operator for the login code sent by Telegram
type CodePrompt func(ctx context.Context) (string, error)

// Login authorizes the session file with the phone from creds if it is not authorized yet.
// password is the optional two-step verification password.
func (s *Source) Login(ctx context.Context, creds domain.TelegramCredentials, prompt CodePrompt, password string) error {
	if creds.Phone == "" {
		return fmt.Errorf("telegram phone is empty")
	}
	codeAuth := auth.CodeAuthenticatorFunc(func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
		code, err := prompt(ctx)
		if err != nil {
			return "", fmt.Errorf("read code: %w", err)
		}
		return strings.TrimSpace(code), nil
	})
	flow := auth.NewFlow(auth.Constant(creds.Phone, password, codeAuth), auth.SendCodeOptions{})

	return s.withClient(ctx, creds, func(ctx context.Context, client *telegram.Client) error {
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth flow: %w", err)
		}
		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		log.Printf("[INFO] telegram session authorized as %s (id %d)", self.Username, self.ID)
		return nil
	})
}
