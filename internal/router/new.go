package router

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/pkg/llmprovider"
	"ecodrive-query-api/pkg/log"
)

// Router is the interface for semantic routing
type Router interface {
	// Classify returns one intent of the closed set. An error means the LLM could not be reached.
	Classify(ctx context.Context, query string, history model.History) (model.Intent, error)
}

// SemanticRouter classifies user intent using an LLM
type SemanticRouter struct {
	llm    llmprovider.Generator
	model  string
	schema *gojsonschema.Schema
	l      log.Logger
}

var _ Router = (*SemanticRouter)(nil)

// New creates a new SemanticRouter. model may be empty to use the provider default.
func New(llm llmprovider.Generator, model string, l log.Logger) (*SemanticRouter, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(intentSchema))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSchemaCompileFailed, err)
	}

	return &SemanticRouter{
		llm:    llm,
		model:  model,
		schema: schema,
		l:      l,
	}, nil
}
