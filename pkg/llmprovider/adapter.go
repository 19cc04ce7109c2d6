package llmprovider

import (
	"context"

	"ecodrive-query-api/pkg/gemini"
	"ecodrive-query-api/pkg/qwen"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Model:       req.Model,
		Messages:    make([]gemini.Message, len(req.Messages)),
	}
	if req.SystemInstruction != nil {
		geminiReq.System = req.SystemInstruction.Content
	}
	for i, msg := range req.Messages {
		geminiReq.Messages[i] = gemini.Message{Role: msg.Role, Text: msg.Content}
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:      AssistantMessage(resp.Text),
		ProviderName: a.Name(),
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// QwenAdapter adapts pkg/qwen to llmprovider.Provider interface
type QwenAdapter struct {
	client qwen.IQwen
}

// NewQwenAdapter creates a new Qwen adapter
func NewQwenAdapter(client qwen.IQwen) *QwenAdapter {
	return &QwenAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *QwenAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	qwenReq := &qwen.Request{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Model:       req.Model,
		Messages:    make([]qwen.Message, len(req.Messages)),
	}
	if req.SystemInstruction != nil {
		qwenReq.System = req.SystemInstruction.Content
	}
	for i, msg := range req.Messages {
		qwenReq.Messages[i] = qwen.Message{Role: msg.Role, Text: msg.Content}
	}

	resp, err := a.client.GenerateContent(ctx, qwenReq)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = modelFor(req, a.client.Model())
	}

	return &Response{
		Content:      AssistantMessage(resp.Text),
		ProviderName: a.Name(),
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *QwenAdapter) Name() string {
	return "qwen"
}

// Model returns model name
func (a *QwenAdapter) Model() string {
	return a.client.Model()
}
