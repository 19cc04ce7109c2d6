package notifier

import "context"

// Notifier signals that a conversation needs a human. Notify never blocks and never fails.
type Notifier interface {
	Notify(ctx context.Context, conversationID string)
}

// Sender delivers one notification. Implementations may block.
type Sender interface {
	Send(ctx context.Context, conversationID string) error
}
