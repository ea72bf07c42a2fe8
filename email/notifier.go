package email

import "context"

// Message is one outgoing email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Notifier is the outgoing-email sink. Tracker creation and user welcome
// mails go through it; senders treat failures as non-fatal unless the
// endpoint exists solely to send mail.
type Notifier interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}
