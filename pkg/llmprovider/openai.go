package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	DefaultDeepSeekModel   = "deepseek-chat"
)

// OpenAIConfig configures an OpenAI or OpenAI-compatible chat completions provider.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIProvider talks to the chat completions API through openai-go.
type OpenAIProvider struct {
	client openai.Client
	name   string
	model  string
}

// NewOpenAIProvider creates a provider. Retries are disabled on the SDK
// client because Manager owns the retry policy.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: APIKey is required")
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		name:   cfg.Name,
		model:  cfg.Model,
	}, nil
}

// GenerateContent implements Provider interface
func (p *OpenAIProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	model := modelFor(req, p.model)

	completion, err := p.client.Chat.Completions.New(ctx, p.buildParams(req, model))
	if err != nil {
		return nil, fmt.Errorf("%s: chat completion failed: %w", p.name, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s: response has no choices", p.name)
	}

	return &Response{
		Content:      AssistantMessage(completion.Choices[0].Message.Content),
		ProviderName: p.name,
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}, nil
}

func (p *OpenAIProvider) buildParams(req *Request, model string) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemInstruction != nil && req.SystemInstruction.Content != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction.Content))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}

	// Reasoning models reject a custom temperature.
	if !isReasoningModel(model) && req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	return params
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

// Name returns provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Model returns the default model name
func (p *OpenAIProvider) Model() string {
	return p.model
}
