package usecase

import (
	"context"
	"fmt"
	"strings"

	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/pkg/llmprovider"
)

func (uc *implUseCase) Reformulate(ctx context.Context, query string, history model.History) (string, error) {
	messages := make([]llmprovider.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llmprovider.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llmprovider.UserMessage(query))

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: llmprovider.SystemMessage(retrieval.PromptReformulate),
		Messages:          messages,
		Temperature:       uc.opts.Temperature,
		MaxTokens:         retrieval.ReformulateMaxTokens,
		Model:             uc.opts.ReformulateModel,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", retrieval.LogPrefixReformulate, err)
	}

	rewritten := strings.Trim(strings.TrimSpace(resp.Text()), `"`)
	if rewritten == "" {
		return "", fmt.Errorf("%s: %w", retrieval.LogPrefixReformulate, retrieval.ErrEmptyReformulation)
	}

	uc.l.Debugf(ctx, "%s: %q -> %q", retrieval.LogPrefixReformulate, query, rewritten)
	return rewritten, nil
}
