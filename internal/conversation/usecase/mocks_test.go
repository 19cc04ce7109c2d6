package usecase

import (
	"context"
	"errors"
	"sync"

	"ecodrive-query-api/internal/generator"
	"ecodrive-query-api/internal/model"
	pkgLog "ecodrive-query-api/pkg/log"
)

type mockStore struct {
	mu      sync.Mutex
	data    map[string]model.History
	loadErr error
	saveErr error
	delErr  error
	saves   int
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]model.History)}
}

func (s *mockStore) Load(ctx context.Context, id string) (model.History, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	h, ok := s.data[id]
	return h.Clone(), ok, nil
}

func (s *mockStore) Save(ctx context.Context, id string, h model.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.data[id] = h.Clone()
	return nil
}

func (s *mockStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return false, s.delErr
	}
	_, ok := s.data[id]
	delete(s.data, id)
	return ok, nil
}

func (s *mockStore) get(id string) model.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[id].Clone()
}

type mockProfiles struct {
	profile model.Profile
	calls   int
}

func (m *mockProfiles) Lookup(ctx context.Context, phone string) model.Profile {
	m.calls++
	p := m.profile
	if p.Phone == "" {
		p.Phone = phone
	}
	return p
}

type mockClassifier struct {
	intent    model.Intent
	err       error
	calls     int
	lastQuery string
	lastHist  model.History
	onCall    func()
}

func (m *mockClassifier) Classify(ctx context.Context, query string, history model.History) (model.Intent, error) {
	m.calls++
	m.lastQuery = query
	m.lastHist = history
	if m.onCall != nil {
		m.onCall()
	}
	if err := ctx.Err(); err != nil {
		return model.IntentOther, err
	}
	if m.err != nil {
		return model.IntentOther, m.err
	}
	return m.intent, nil
}

// mockGenerator records every call as "<method>" and answers "<method>:<query>".
type mockGenerator struct {
	mu     sync.Mutex
	calls  []string
	err    error
	empty  bool
	greets []generator.GreetInput
	answer []generator.AnswerInput
}

func (m *mockGenerator) record(ctx context.Context, method, query string) (string, error) {
	m.calls = append(m.calls, method)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	if m.empty {
		return "   ", nil
	}
	return method + ":" + query, nil
}

func (m *mockGenerator) Greet(ctx context.Context, in generator.GreetInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.greets = append(m.greets, in)
	return m.record(ctx, "greet", in.Query)
}

func (m *mockGenerator) Answer(ctx context.Context, in generator.AnswerInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = append(m.answer, in)
	return m.record(ctx, "answer", in.Query)
}

func (m *mockGenerator) HandOff(ctx context.Context, in generator.TurnInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(ctx, "handoff", in.Query)
}

func (m *mockGenerator) Thank(ctx context.Context, in generator.TurnInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(ctx, "thank", in.Query)
}

func (m *mockGenerator) Redirect(ctx context.Context, in generator.TurnInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(ctx, "redirect", in.Query)
}

func (m *mockGenerator) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type mockRetrieval struct {
	events         []string
	reformulated   string
	context        string
	reformulateErr error
	retrieveErr    error
	retrievedWith  string
}

func (m *mockRetrieval) Reformulate(ctx context.Context, query string, history model.History) (string, error) {
	m.events = append(m.events, "reformulate")
	if m.reformulateErr != nil {
		return "", m.reformulateErr
	}
	return m.reformulated, nil
}

func (m *mockRetrieval) Retrieve(ctx context.Context, query string) (string, error) {
	m.events = append(m.events, "retrieve")
	m.retrievedWith = query
	if m.retrieveErr != nil {
		return "", m.retrieveErr
	}
	return m.context, nil
}

type mockNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (m *mockNotifier) Notify(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, id)
}

func (m *mockNotifier) notified() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

type fixture struct {
	store      *mockStore
	profiles   *mockProfiles
	classifier *mockClassifier
	generator  *mockGenerator
	retrieval  *mockRetrieval
	notifier   *mockNotifier
	uc         *implUseCase
}

func newFixture(intent model.Intent) *fixture {
	f := &fixture{
		store:      newMockStore(),
		profiles:   &mockProfiles{},
		classifier: &mockClassifier{intent: intent},
		generator:  &mockGenerator{},
		retrieval:  &mockRetrieval{reformulated: "consulta reformulada", context: "contexto"},
		notifier:   &mockNotifier{},
	}
	f.uc = New(f.store, f.profiles, f.classifier, f.generator, f.retrieval, f.notifier, nil, pkgLog.NewNop())
	return f
}

var errUpstream = errors.New("upstream unavailable")
