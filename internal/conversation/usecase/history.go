package usecase

import (
	"context"
	"strings"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/model"
)

func (uc *implUseCase) History(ctx context.Context, conversationID string) (conversation.HistoryOutput, error) {
	id := conversationID
	if strings.TrimSpace(id) == "" {
		return conversation.HistoryOutput{}, conversation.ErrEmptyConversationID
	}

	h, _, err := uc.store.Load(ctx, id)
	uc.metrics.StoreOperation(metrics.StoreLoad, err)
	if err != nil {
		return conversation.HistoryOutput{}, uc.fatal(ctx, id, stepLoad, err)
	}
	if h == nil {
		h = model.History{}
	}

	return conversation.HistoryOutput{ConversationID: id, Turns: h}, nil
}
