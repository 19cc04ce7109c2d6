package llmprovider

import (
	"errors"
	"fmt"
)

var (
	ErrAllProvidersFailed    = errors.New("llmprovider: all providers failed")
	ErrNoProvidersConfigured = errors.New("llmprovider: no providers configured")
	ErrInvalidRequest        = errors.New("llmprovider: request has no messages")
)

// ProviderError tags an upstream failure with the provider and model that produced it.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
