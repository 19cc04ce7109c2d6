package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/internal/retrieval/repository"
	"ecodrive-query-api/pkg/cohere"
	"ecodrive-query-api/pkg/llmprovider"
	pkgLog "ecodrive-query-api/pkg/log"
)

type mockLLM struct {
	text string
	err  error
	last *llmprovider.Request
}

func (m *mockLLM) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{Content: llmprovider.AssistantMessage(m.text)}, nil
}

type mockRepo struct {
	passages []repository.Passage
	err      error
	last     repository.SearchOptions
	calls    int
}

func (m *mockRepo) Search(ctx context.Context, opt repository.SearchOptions) ([]repository.Passage, error) {
	m.calls++
	m.last = opt
	return m.passages, m.err
}

type mockReranker struct {
	results []cohere.RerankResult
	err     error
}

func (m *mockReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]cohere.RerankResult, error) {
	return m.results, m.err
}

var passages = []repository.Passage{
	{Title: "X2", Content: "Patinete X2 $299.990"},
	{Title: "Horario", Content: "Lunes a sábado 10 a 19"},
}

func TestReformulate(t *testing.T) {
	llm := &mockLLM{text: ` "precio patinete X2" `}
	uc := New(llm, nil, nil, retrieval.Options{ReformulateModel: "chat"}, pkgLog.NewNop())

	history := model.History{{Role: model.RoleUser, Content: "hola"}, {Role: model.RoleAssistant, Content: "Hola!"}}
	got, err := uc.Reformulate(context.Background(), "how much is the X2?", history)
	require.NoError(t, err)
	assert.Equal(t, "precio patinete X2", got)
	assert.Equal(t, "chat", llm.last.Model)
	assert.Len(t, llm.last.Messages, 3)
	assert.Equal(t, retrieval.PromptReformulate, llm.last.SystemInstruction.Content)
}

func TestReformulate_Errors(t *testing.T) {
	upstream := errors.New("down")
	_, err := New(&mockLLM{err: upstream}, nil, nil, retrieval.Options{}, pkgLog.NewNop()).
		Reformulate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, upstream)

	_, err = New(&mockLLM{text: `""`}, nil, nil, retrieval.Options{}, pkgLog.NewNop()).
		Reformulate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, retrieval.ErrEmptyReformulation)
}

func TestRetrieve_NoRepository(t *testing.T) {
	uc := New(&mockLLM{}, nil, nil, retrieval.Options{}, pkgLog.NewNop())
	got, err := uc.Retrieve(context.Background(), "precio")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieve_BuildsContext(t *testing.T) {
	repo := &mockRepo{passages: passages}
	uc := New(&mockLLM{}, repo, nil, retrieval.Options{TopK: 3, DatasetIDs: []string{"products"}}, pkgLog.NewNop())

	got, err := uc.Retrieve(context.Background(), "precio X2")
	require.NoError(t, err)
	assert.Equal(t, "X2\nPatinete X2 $299.990\n\n---\n\nHorario\nLunes a sábado 10 a 19", got)
	assert.Equal(t, 3, repo.last.Limit)
	assert.Equal(t, []string{"products"}, repo.last.DatasetIDs)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	repo := &mockRepo{}
	uc := New(&mockLLM{}, repo, nil, retrieval.Options{}, pkgLog.NewNop())

	got, err := uc.Retrieve(context.Background(), "precio")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, retrieval.DefaultTopK, repo.last.Limit)
}

func TestRetrieve_SearchError(t *testing.T) {
	upstream := errors.New("qdrant down")
	uc := New(&mockLLM{}, &mockRepo{err: upstream}, nil, retrieval.Options{}, pkgLog.NewNop())

	_, err := uc.Retrieve(context.Background(), "precio")
	assert.ErrorIs(t, err, retrieval.ErrSearchFailed)
	assert.ErrorIs(t, err, upstream)
}

func TestRetrieve_Rerank(t *testing.T) {
	rr := &mockReranker{results: []cohere.RerankResult{{Index: 1, RelevanceScore: 0.9}, {Index: 0, RelevanceScore: 0.2}}}
	uc := New(&mockLLM{}, &mockRepo{passages: passages}, rr, retrieval.Options{}, pkgLog.NewNop())

	got, err := uc.Retrieve(context.Background(), "horario")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Horario"), got)
}

func TestRetrieve_RerankFailureKeepsOrder(t *testing.T) {
	rr := &mockReranker{err: errors.New("429")}
	uc := New(&mockLLM{}, &mockRepo{passages: passages}, rr, retrieval.Options{}, pkgLog.NewNop())

	got, err := uc.Retrieve(context.Background(), "horario")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "X2"), got)
}

func TestBuildContext_TruncatesOnRuneBoundary(t *testing.T) {
	ps := []repository.Passage{{Content: strings.Repeat("ñ", 50)}}
	got := buildContext(ps, 10)
	assert.Equal(t, 10, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}
