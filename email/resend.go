package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends via the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from}
}

func (n *ResendNotifier) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}
