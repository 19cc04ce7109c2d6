package generator

import "context"

// Generator produces the customer-facing reply for each intent.
// Every method returns non-empty text or an error.
type Generator interface {
	Greet(ctx context.Context, in GreetInput) (string, error)
	Answer(ctx context.Context, in AnswerInput) (string, error)
	HandOff(ctx context.Context, in TurnInput) (string, error)
	Thank(ctx context.Context, in TurnInput) (string, error)
	Redirect(ctx context.Context, in TurnInput) (string, error)
}
