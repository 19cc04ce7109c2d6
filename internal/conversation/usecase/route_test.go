package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/model"
)

func route(t *testing.T, f *fixture, query, convID string) conversation.RouteOutput {
	t.Helper()
	out, err := f.uc.Route(context.Background(), conversation.RouteInput{
		Query:          query,
		CallerID:       "+56911112222",
		ConversationID: convID,
	})
	require.NoError(t, err)
	return out
}

func TestRoute_SingleDispatchPerIntent(t *testing.T) {
	want := map[model.Intent]string{
		model.IntentGreeting:       "greet",
		model.IntentInformation:    "answer",
		model.IntentServiceRequest: "handoff",
		model.IntentComplaint:      "handoff",
		model.IntentPraise:         "thank",
		model.IntentOther:          "redirect",
	}

	for intent, method := range want {
		t.Run(intent.String(), func(t *testing.T) {
			f := newFixture(intent)
			out := route(t, f, "mensaje", "c1")

			assert.Equal(t, []string{method}, f.generator.callLog())
			assert.Equal(t, intent, out.Intent)
			assert.Equal(t, method+":mensaje", out.Answer)
			assert.Equal(t, 1, f.classifier.calls)
			assert.Equal(t, 1, f.profiles.calls)
		})
	}
}

func TestRoute_FallbackPerBranch(t *testing.T) {
	want := map[model.Intent]string{
		model.IntentGreeting:       FallbackGreeting,
		model.IntentInformation:    FallbackInformation,
		model.IntentServiceRequest: FallbackHandOff,
		model.IntentComplaint:      FallbackHandOff,
		model.IntentPraise:         FallbackPraise,
		model.IntentOther:          FallbackOther,
	}

	for intent, fallback := range want {
		t.Run(intent.String()+" error", func(t *testing.T) {
			f := newFixture(intent)
			f.generator.err = errUpstream
			out := route(t, f, "hola", "c1")
			assert.Equal(t, fallback, out.Answer)

			h := f.store.get("c1")
			require.Len(t, h, 2)
			assert.Equal(t, fallback, h[1].Content)
		})
		t.Run(intent.String()+" empty", func(t *testing.T) {
			f := newFixture(intent)
			f.generator.empty = true
			assert.Equal(t, fallback, route(t, f, "hola", "c1").Answer)
		})
	}
}

func TestRoute_ClassifierFailureRoutesToOther(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	f.classifier.err = errUpstream

	out := route(t, f, "asdf", "c1")
	assert.Equal(t, model.IntentOther, out.Intent)
	assert.Equal(t, []string{"redirect"}, f.generator.callLog())
	assert.Empty(t, f.notifier.notified())
}

func TestRoute_UnknownProfileStillAnswers(t *testing.T) {
	f := newFixture(model.IntentGreeting)

	out := route(t, f, "hola", "c1")
	assert.Equal(t, "greet:hola", out.Answer)
	require.Len(t, f.generator.greets, 1)
	assert.Empty(t, f.generator.greets[0].CustomerName)
}

func TestRoute_HistoryGrowsInAlternatingPairs(t *testing.T) {
	f := newFixture(model.IntentPraise)
	const n = 5
	for i := 0; i < n; i++ {
		route(t, f, "gracias", "c1")
	}

	h := f.store.get("c1")
	require.Len(t, h, 2*n)
	for i, turn := range h {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, turn.Role)
			assert.Equal(t, "gracias", turn.Content)
		} else {
			assert.Equal(t, model.RoleAssistant, turn.Role)
		}
	}
}

func TestRoute_ClassifierSeesPriorHistoryOnly(t *testing.T) {
	f := newFixture(model.IntentOther)
	route(t, f, "uno", "c1")
	route(t, f, "dos", "c1")

	require.Len(t, f.classifier.lastHist, 2)
	assert.Equal(t, "uno", f.classifier.lastHist[0].Content)
}

func TestRoute_ConversationID(t *testing.T) {
	f := newFixture(model.IntentGreeting)

	out := route(t, f, "hola", "fixed-id")
	assert.Equal(t, "fixed-id", out.ConversationID)

	a := route(t, f, "hola", "")
	b := route(t, f, "hola", "   ")
	assert.NotEqual(t, a.ConversationID, b.ConversationID)
	_, err := uuid.Parse(a.ConversationID)
	assert.NoError(t, err)
	assert.Len(t, f.store.get(a.ConversationID), 2)
}

func TestRoute_IDGenerationFailureIsFatal(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	f.uc.newID = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := f.uc.Route(context.Background(), conversation.RouteInput{Query: "hola", CallerID: "1"})
	assert.ErrorIs(t, err, conversation.ErrProcessingFailed)
	assert.Zero(t, f.classifier.calls)
}

func TestRoute_Validation(t *testing.T) {
	f := newFixture(model.IntentGreeting)

	_, err := f.uc.Route(context.Background(), conversation.RouteInput{Query: "  \n", CallerID: "1"})
	assert.ErrorIs(t, err, conversation.ErrEmptyQuery)

	_, err = f.uc.Route(context.Background(), conversation.RouteInput{Query: "hola", CallerID: " "})
	assert.ErrorIs(t, err, conversation.ErrEmptyCallerID)

	assert.Zero(t, f.profiles.calls)
	assert.Zero(t, f.classifier.calls)
	assert.Empty(t, f.generator.callLog())
}

func TestRoute_StoreFailuresAreFatal(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	f.store.loadErr = errUpstream
	_, err := f.uc.Route(context.Background(), conversation.RouteInput{Query: "hola", CallerID: "1", ConversationID: "c1"})
	assert.ErrorIs(t, err, conversation.ErrProcessingFailed)
	assert.ErrorIs(t, err, errUpstream)
	assert.Zero(t, f.classifier.calls)

	f = newFixture(model.IntentServiceRequest)
	f.store.saveErr = errUpstream
	_, err = f.uc.Route(context.Background(), conversation.RouteInput{Query: "quiero comprar", CallerID: "1", ConversationID: "c1"})
	assert.ErrorIs(t, err, conversation.ErrProcessingFailed)
}

func TestRoute_NotifierExactlyOnceForHandoff(t *testing.T) {
	for _, intent := range model.Intents {
		t.Run(intent.String(), func(t *testing.T) {
			f := newFixture(intent)
			route(t, f, "mensaje", "c1")

			if intent.RequiresHandoff() {
				assert.Equal(t, []string{"c1"}, f.notifier.notified())
			} else {
				assert.Empty(t, f.notifier.notified())
			}
		})
	}
}

func TestRoute_NotifierFiresEvenOnFallback(t *testing.T) {
	f := newFixture(model.IntentComplaint)
	f.generator.err = errUpstream

	out := route(t, f, "pésimo servicio", "c1")
	assert.Equal(t, FallbackHandOff, out.Answer)
	assert.Equal(t, []string{"c1"}, f.notifier.notified())
}

func TestRoute_FirstGreetingIntroduces(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	f.profiles.profile = model.Profile{ID: 4, Name: "Camila"}

	route(t, f, "hola", "c1")

	require.Len(t, f.generator.greets, 1)
	g := f.generator.greets[0]
	assert.Empty(t, g.History)
	assert.False(t, g.History.HasAssistantTurn())
	assert.Equal(t, "Camila", g.CustomerName)
}

func TestRoute_SecondGreetingSeesAssistantTurn(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	route(t, f, "hola", "c1")
	route(t, f, "hola otra vez", "c1")

	require.Len(t, f.generator.greets, 2)
	assert.True(t, f.generator.greets[1].History.HasAssistantTurn())
}

func TestRoute_InformationPipelineOrder(t *testing.T) {
	f := newFixture(model.IntentInformation)

	out := route(t, f, "¿cuánto cuesta el X2?", "c1")

	assert.Equal(t, []string{"reformulate", "retrieve"}, f.retrieval.events)
	assert.Equal(t, "consulta reformulada", f.retrieval.retrievedWith)
	require.Len(t, f.generator.answer, 1)
	assert.Equal(t, "¿cuánto cuesta el X2?", f.generator.answer[0].Query)
	assert.Equal(t, "contexto", f.generator.answer[0].Context)
	assert.Equal(t, "answer:¿cuánto cuesta el X2?", out.Answer)
}

func TestRoute_InformationDegradesGracefully(t *testing.T) {
	f := newFixture(model.IntentInformation)
	f.retrieval.reformulateErr = errUpstream
	f.retrieval.retrieveErr = errUpstream

	out := route(t, f, "horario", "c1")

	assert.Equal(t, "horario", f.retrieval.retrievedWith)
	require.Len(t, f.generator.answer, 1)
	assert.Empty(t, f.generator.answer[0].Context)
	assert.Equal(t, "answer:horario", out.Answer)
}

func TestRoute_SameConversationIsSerialized(t *testing.T) {
	f := newFixture(model.IntentPraise)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Route(context.Background(), conversation.RouteInput{Query: "gracias", CallerID: "1", ConversationID: "shared"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.store.get("shared"), 2*n)
	assert.Zero(t, f.uc.locks.size())
}

func TestRoute_CancelledWhileWaitingForLock(t *testing.T) {
	f := newFixture(model.IntentPraise)
	unlock, err := f.uc.locks.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.uc.Route(ctx, conversation.RouteInput{Query: "hola", CallerID: "1", ConversationID: "busy"})
	assert.ErrorIs(t, err, conversation.ErrProcessingFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoute_UnknownIntentBecomesOther(t *testing.T) {
	f := newFixture(model.Intent("bogus"))

	out := route(t, f, "mensaje", "c1")

	assert.Equal(t, model.IntentOther, out.Intent)
	assert.Equal(t, []string{"redirect"}, f.generator.callLog())
	assert.Equal(t, "redirect:mensaje", out.Answer)
	assert.Empty(t, f.notifier.notified())
}

func TestRoute_CallerDisconnectDoesNotAbortCycle(t *testing.T) {
	f := newFixture(model.IntentGreeting)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.classifier.onCall = cancel

	out, err := f.uc.Route(ctx, conversation.RouteInput{Query: "hola", CallerID: "1", ConversationID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, model.IntentGreeting, out.Intent)
	assert.Equal(t, "greet:hola", out.Answer)
	assert.Equal(t, model.History{
		{Role: model.RoleUser, Content: "hola"},
		{Role: model.RoleAssistant, Content: "greet:hola"},
	}, f.store.get("c1"))
}

func TestRoute_QueryAndConversationIDKeptVerbatim(t *testing.T) {
	f := newFixture(model.IntentPraise)

	out := route(t, f, "  muchas gracias \n", " c-1 ")

	assert.Equal(t, " c-1 ", out.ConversationID)
	assert.Equal(t, "  muchas gracias \n", f.classifier.lastQuery)
	history := f.store.get(" c-1 ")
	require.Len(t, history, 2)
	assert.Equal(t, "  muchas gracias \n", history[0].Content)
	assert.Empty(t, f.store.get("c-1"))
}
