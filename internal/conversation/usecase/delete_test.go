package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/model"
)

func TestDelete(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	route(t, f, "hola", "c1")

	out, err := f.uc.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Empty(t, f.store.get("c1"))

	out, err = f.uc.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, out.Found)
}

func TestDelete_Errors(t *testing.T) {
	f := newFixture(model.IntentGreeting)

	_, err := f.uc.Delete(context.Background(), " ")
	assert.ErrorIs(t, err, conversation.ErrEmptyConversationID)

	f.store.delErr = errUpstream
	_, err = f.uc.Delete(context.Background(), "c1")
	assert.ErrorIs(t, err, conversation.ErrProcessingFailed)
}

func TestDelete_ThenRouteStartsFresh(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	route(t, f, "hola", "c1")
	_, err := f.uc.Delete(context.Background(), "c1")
	require.NoError(t, err)

	route(t, f, "hola", "c1")
	require.Len(t, f.generator.greets, 2)
	assert.False(t, f.generator.greets[1].History.HasAssistantTurn())
	assert.Len(t, f.store.get("c1"), 2)
}

func TestHistory(t *testing.T) {
	f := newFixture(model.IntentPraise)
	route(t, f, "gracias", "c1")

	out, err := f.uc.History(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ConversationID)
	require.Len(t, out.Turns, 2)
	assert.Equal(t, "thank:gracias", out.Turns[1].Content)

	out, err = f.uc.History(context.Background(), "unknown")
	require.NoError(t, err)
	assert.NotNil(t, out.Turns)
	assert.Empty(t, out.Turns)

	_, err = f.uc.History(context.Background(), "")
	assert.ErrorIs(t, err, conversation.ErrEmptyConversationID)
}
