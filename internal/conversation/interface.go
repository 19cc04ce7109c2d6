package conversation

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// Route runs one full cycle: profile, classification, reply, history update.
	Route(ctx context.Context, input RouteInput) (RouteOutput, error)

	// Delete removes a conversation's history. An unknown id is not an error.
	Delete(ctx context.Context, conversationID string) (DeleteOutput, error)

	// History returns the stored turns of a conversation, empty when unknown.
	History(ctx context.Context, conversationID string) (HistoryOutput, error)
}
