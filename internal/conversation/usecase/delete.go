package usecase

import (
	"context"
	"strings"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/metrics"
)

func (uc *implUseCase) Delete(ctx context.Context, conversationID string) (conversation.DeleteOutput, error) {
	id := conversationID
	if strings.TrimSpace(id) == "" {
		return conversation.DeleteOutput{}, conversation.ErrEmptyConversationID
	}

	unlock, err := uc.locks.Lock(ctx, id)
	if err != nil {
		return conversation.DeleteOutput{}, uc.fatal(ctx, id, stepLock, err)
	}
	defer unlock()

	found, err := uc.store.Delete(ctx, id)
	uc.metrics.StoreOperation(metrics.StoreDelete, err)
	if err != nil {
		return conversation.DeleteOutput{}, uc.fatal(ctx, id, stepDelete, err)
	}

	uc.l.Infof(ctx, "%s: conversation %s deleted (found=%t)", LogPrefixDelete, id, found)
	return conversation.DeleteOutput{Found: found}, nil
}
