package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/model"
)

func (uc *implUseCase) Route(ctx context.Context, input conversation.RouteInput) (conversation.RouteOutput, error) {
	start := time.Now()

	query := input.Query
	if strings.TrimSpace(query) == "" {
		return conversation.RouteOutput{}, conversation.ErrEmptyQuery
	}
	callerID := strings.TrimSpace(input.CallerID)
	if callerID == "" {
		return conversation.RouteOutput{}, conversation.ErrEmptyCallerID
	}

	conversationID := input.ConversationID
	if strings.TrimSpace(conversationID) == "" {
		id, err := uc.newID()
		if err != nil {
			return conversation.RouteOutput{}, uc.fatal(ctx, "", stepGenerateID, err)
		}
		conversationID = id
	}

	unlock, err := uc.locks.Lock(ctx, conversationID)
	if err != nil {
		return conversation.RouteOutput{}, uc.fatal(ctx, conversationID, stepLock, err)
	}
	defer unlock()

	// Past the lock the cycle runs to completion even if the caller goes away.
	// Each upstream call stays bounded by its own timeout.
	ctx = context.WithoutCancel(ctx)

	history, _, err := uc.store.Load(ctx, conversationID)
	uc.metrics.StoreOperation(metrics.StoreLoad, err)
	if err != nil {
		return conversation.RouteOutput{}, uc.fatal(ctx, conversationID, stepLoad, err)
	}

	profile := uc.profiles.Lookup(ctx, callerID)

	intent, err := uc.classifier.Classify(ctx, query, history.Clone())
	if err != nil {
		uc.upstreamFailure(ctx, conversationID, metrics.StepClassify, err)
		intent = model.IntentOther
	}
	if !intent.Valid() {
		uc.l.Warnf(ctx, "%s: classifier returned unknown intent %q, using %s", LogPrefixRoute, intent, model.IntentOther)
		intent = model.IntentOther
	}

	answer := uc.dispatch(ctx, intent, cycle{
		conversationID: conversationID,
		query:          query,
		history:        history,
		profile:        profile,
	})

	if intent.RequiresHandoff() {
		uc.notifier.Notify(ctx, conversationID)
	}

	updated := history.Append(
		model.Turn{Role: model.RoleUser, Content: query},
		model.Turn{Role: model.RoleAssistant, Content: answer},
	)
	err = uc.store.Save(ctx, conversationID, updated)
	uc.metrics.StoreOperation(metrics.StoreSave, err)
	if err != nil {
		return conversation.RouteOutput{}, uc.fatal(ctx, conversationID, stepSave, err)
	}

	uc.metrics.ObserveRoute(intent.String(), time.Since(start))
	uc.l.Info(ctx, LogPrefixRoute+": routed",
		"conversation_id", conversationID,
		"intent", intent.String(),
		"known_caller", profile.IsKnown(),
		"turns", len(updated),
	)

	return conversation.RouteOutput{
		Answer:         answer,
		Intent:         intent,
		ConversationID: conversationID,
	}, nil
}

// fatal logs a local failure and wraps it as ErrProcessingFailed.
func (uc *implUseCase) fatal(ctx context.Context, conversationID, step string, err error) error {
	uc.l.Error(ctx, LogPrefixRoute+": step failed",
		"conversation_id", conversationID,
		"step", step,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: %s: %w", conversation.ErrProcessingFailed, step, err)
}

func (uc *implUseCase) upstreamFailure(ctx context.Context, conversationID, step string, err error) {
	uc.metrics.UpstreamFailure(step)
	uc.l.Warn(ctx, LogPrefixRoute+": upstream failure recovered",
		"conversation_id", conversationID,
		"step", step,
		"error", err.Error(),
	)
}
