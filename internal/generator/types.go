package generator

import "ecodrive-query-api/internal/model"

// TurnInput is the common input of every generator call.
type TurnInput struct {
	Query   string
	History model.History
}

// GreetInput adds the caller's name, empty when unknown.
type GreetInput struct {
	TurnInput
	CustomerName string
}

// AnswerInput adds the retrieved knowledge context, possibly empty.
type AnswerInput struct {
	TurnInput
	Context string
}

// Options selects the models and sampling used for generation.
type Options struct {
	ChatModel   string
	RAGModel    string
	Temperature float64
	MaxTokens   int
}
