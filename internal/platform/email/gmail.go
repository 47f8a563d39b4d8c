package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type gmailSender struct {
	svc *gmail.Service
}

// NewGmail returns a sender that posts raw messages through the Gmail API as
// the authorized user.
func NewGmail(ctx context.Context, source oauth2.TokenSource, opts ...option.ClientOption) (Sender, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(source)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &gmailSender{svc: svc}, nil
}

func (g *gmailSender) Send(ctx context.Context, msg Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	raw := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(data)}
	if _, err := g.svc.Users.Messages.Send("me", raw).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

func (g *gmailSender) Close() error { return nil }
