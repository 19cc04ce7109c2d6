package usecase

import (
	"github.com/google/uuid"

	"ecodrive-query-api/internal/caller"
	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/internal/conversation/repository"
	"ecodrive-query-api/internal/generator"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/model"
	"ecodrive-query-api/internal/notifier"
	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/internal/router"
	"ecodrive-query-api/pkg/log"
)

// implUseCase is the private implementation of conversation.UseCase.
type implUseCase struct {
	store      repository.Store
	profiles   caller.UseCase
	classifier router.Router
	generator  generator.Generator
	retrieval  retrieval.UseCase
	notifier   notifier.Notifier
	metrics    *metrics.Metrics
	l          log.Logger

	locks *keyedMutex
	table map[model.Intent]branch
	newID func() (string, error)
}

var _ conversation.UseCase = (*implUseCase)(nil)

// New creates a new conversation UseCase implementation. m may be nil.
func New(
	store repository.Store,
	profiles caller.UseCase,
	classifier router.Router,
	gen generator.Generator,
	retriever retrieval.UseCase,
	notify notifier.Notifier,
	m *metrics.Metrics,
	l log.Logger,
) *implUseCase {
	uc := &implUseCase{
		store:      store,
		profiles:   profiles,
		classifier: classifier,
		generator:  gen,
		retrieval:  retriever,
		notifier:   notify,
		metrics:    m,
		l:          l,
		locks:      newKeyedMutex(),
		newID:      newConversationID,
	}
	uc.table = uc.routingTable()
	return uc
}

func newConversationID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
