package qwen

import "context"

// IQwen is a chat client for DashScope's OpenAI-compatible endpoint.
type IQwen interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Model() string
}

var _ IQwen = (*qwenImpl)(nil)

// New validates cfg, fills its defaults and returns a client.
func New(cfg Config) (IQwen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newQwenImpl(cfg), nil
}
