package generator

import (
	"context"
	"fmt"
	"strings"

	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/pkg/llmprovider"
)

func (g *LLMGenerator) Greet(ctx context.Context, in GreetInput) (string, error) {
	intro := introductionRequired
	if in.History.HasAssistantTurn() {
		intro = introductionNotRequired
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = unknownCustomerName
	}

	return g.complete(ctx, LogPrefixGreet, fmt.Sprintf(PromptGreet, intro, name), in.TurnInput, g.opts.ChatModel)
}

// Answer grounds the reply on in.Context. An empty context is allowed.
func (g *LLMGenerator) Answer(ctx context.Context, in AnswerInput) (string, error) {
	system := fmt.Sprintf(PromptAnswer, in.Query, in.Context)
	return g.complete(ctx, LogPrefixAnswer, system, in.TurnInput, g.opts.RAGModel)
}

func (g *LLMGenerator) HandOff(ctx context.Context, in TurnInput) (string, error) {
	return g.complete(ctx, LogPrefixHandOff, fmt.Sprintf(PromptHandOff, HandoffPhone), in, g.opts.ChatModel)
}

func (g *LLMGenerator) Thank(ctx context.Context, in TurnInput) (string, error) {
	return g.complete(ctx, LogPrefixThank, PromptThank, in, g.opts.ChatModel)
}

func (g *LLMGenerator) Redirect(ctx context.Context, in TurnInput) (string, error) {
	return g.complete(ctx, LogPrefixRedirect, PromptRedirect, in, g.opts.ChatModel)
}

func (g *LLMGenerator) complete(ctx context.Context, prefix, system string, in TurnInput, modelName string) (string, error) {
	resp, err := g.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: llmprovider.SystemMessage(system),
		Messages:          buildMessages(in.History, in.Query),
		Temperature:       g.opts.Temperature,
		MaxTokens:         g.opts.MaxTokens,
		Model:             modelName,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", prefix, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", prefix, ErrEmptyCompletion)
	}

	g.l.Debug(ctx, prefix+": generated", "provider", resp.ProviderName, "model", resp.ModelName, "chars", len(text))
	return text, nil
}

func buildMessages(history model.History, query string) []llmprovider.Message {
	messages := make([]llmprovider.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llmprovider.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return append(messages, llmprovider.UserMessage(query))
}
