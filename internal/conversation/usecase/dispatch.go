package usecase

import (
	"context"
	"errors"
	"strings"

	"ecodrive-query-api/internal/generator"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/model"
)

// cycle is the per-request state handed to a branch. history is the snapshot
// loaded at the start of the cycle and must not be modified.
type cycle struct {
	conversationID string
	query          string
	history        model.History
	profile        model.Profile
}

type branch struct {
	run      func(ctx context.Context, c cycle) (string, error)
	fallback string
}

var errEmptyAnswer = errors.New("empty answer")

// routingTable maps every intent to exactly one branch.
func (uc *implUseCase) routingTable() map[model.Intent]branch {
	handOff := branch{run: uc.handOff, fallback: FallbackHandOff}
	return map[model.Intent]branch{
		model.IntentGreeting:       {run: uc.greet, fallback: FallbackGreeting},
		model.IntentInformation:    {run: uc.inform, fallback: FallbackInformation},
		model.IntentServiceRequest: handOff,
		model.IntentComplaint:      handOff,
		model.IntentPraise:         {run: uc.thank, fallback: FallbackPraise},
		model.IntentOther:          {run: uc.redirect, fallback: FallbackOther},
	}
}

// dispatch runs the branch for intent and substitutes its fallback on failure.
func (uc *implUseCase) dispatch(ctx context.Context, intent model.Intent, c cycle) string {
	b, ok := uc.table[intent]
	if !ok {
		b = uc.table[model.IntentOther]
	}

	answer, err := b.run(ctx, c)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = errEmptyAnswer
	}
	if err != nil {
		uc.upstreamFailure(ctx, c.conversationID, metrics.StepGenerate, err)
		uc.metrics.Fallback(intent.String())
		return b.fallback
	}
	return answer
}

func (c cycle) turn() generator.TurnInput {
	return generator.TurnInput{Query: c.query, History: c.history.Clone()}
}

func (uc *implUseCase) greet(ctx context.Context, c cycle) (string, error) {
	return uc.generator.Greet(ctx, generator.GreetInput{TurnInput: c.turn(), CustomerName: c.profile.Name})
}

// inform is the retrieval-grounded branch. Reformulation and retrieval failures
// degrade to the raw query and to an empty context.
func (uc *implUseCase) inform(ctx context.Context, c cycle) (string, error) {
	searchQuery, err := uc.retrieval.Reformulate(ctx, c.query, c.history.Clone())
	if err != nil {
		uc.upstreamFailure(ctx, c.conversationID, metrics.StepReformulate, err)
		searchQuery = c.query
	}

	knowledge, err := uc.retrieval.Retrieve(ctx, searchQuery)
	if err != nil {
		uc.upstreamFailure(ctx, c.conversationID, metrics.StepRetrieve, err)
		knowledge = ""
	}

	return uc.generator.Answer(ctx, generator.AnswerInput{TurnInput: c.turn(), Context: knowledge})
}

func (uc *implUseCase) handOff(ctx context.Context, c cycle) (string, error) {
	return uc.generator.HandOff(ctx, c.turn())
}

func (uc *implUseCase) thank(ctx context.Context, c cycle) (string, error) {
	return uc.generator.Thank(ctx, c.turn())
}

func (uc *implUseCase) redirect(ctx context.Context, c cycle) (string, error) {
	return uc.generator.Redirect(ctx, c.turn())
}
