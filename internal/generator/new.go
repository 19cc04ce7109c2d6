package generator

import (
	"ecodrive-query-api/pkg/llmprovider"
	"ecodrive-query-api/pkg/log"
)

// LLMGenerator renders each reply through an llmprovider.Generator.
type LLMGenerator struct {
	llm  llmprovider.Generator
	opts Options
	l    log.Logger
}

var _ Generator = (*LLMGenerator)(nil)

func New(llm llmprovider.Generator, opts Options, l log.Logger) *LLMGenerator {
	return &LLMGenerator{
		llm:  llm,
		opts: opts,
		l:    l,
	}
}
