package http

import (
	"github.com/gin-gonic/gin"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/pkg/log"
)

// Handler is the public interface for the conversation HTTP delivery layer.
type Handler interface {
	Query(c *gin.Context)
	Delete(c *gin.Context)
	History(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc conversation.UseCase
}

var _ Handler = (*handler)(nil)

// New creates a new HTTP handler for the conversation domain.
func New(l log.Logger, uc conversation.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
