package email

import (
	"context"
	"log"
)

// NoopNotifier logs instead of sending. Used when no API key is configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(_ context.Context, msg Message) (string, error) {
	log.Printf("email disabled, would send %q to %v", msg.Subject, msg.To)
	return "", nil
}
