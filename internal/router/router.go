package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/pkg/llmprovider"
)

type classifierOutput struct {
	Intent string `json:"intent"`
}

// Classify determines the intent of query given the conversation so far.
// The history is read only.
func (r *SemanticRouter) Classify(ctx context.Context, query string, history model.History) (model.Intent, error) {
	messages := make([]llmprovider.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llmprovider.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llmprovider.UserMessage(query))

	resp, err := r.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: llmprovider.SystemMessage(PromptRouterSystem),
		Messages:          messages,
		Temperature:       RouterTemperature,
		MaxTokens:         RouterMaxTokens,
		Model:             r.model,
	})
	if err != nil {
		return model.IntentOther, fmt.Errorf("%s: %s: %w", LogPrefixClassify, ErrMsgLLMCallFailed, err)
	}

	text := stripCodeFence(resp.Text())
	if text == "" {
		r.l.Warnf(ctx, "%s: %s", LogPrefixClassify, ErrMsgEmptyResponse)
		return model.IntentOther, nil
	}

	result, err := r.schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ErrMsgJSONParseFailed, err)
		return model.IntentOther, nil
	}
	if !result.Valid() {
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ErrMsgSchemaInvalid, result.Errors())
		return model.IntentOther, nil
	}

	var out classifierOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ErrMsgJSONParseFailed, err)
		return model.IntentOther, nil
	}

	intent := model.ParseIntent(out.Intent)
	r.l.Info(ctx, LogPrefixClassify+": classified", "label", out.Intent, "intent", intent.String())
	return intent, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
