package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ecodrive-query-api/internal/conversation"
	"ecodrive-query-api/pkg/log"
	"ecodrive-query-api/pkg/response"
)

const (
	fieldQuery          = "query"
	fieldPhone          = "phone"
	fieldConversationID = "conversation_id"
	fieldBody           = "body"
)

var (
	errInvalidBody           = errors.New("request body must be a JSON object")
	errConversationIDTooLong = errors.New("conversation_id is too long")
)

// validationError renders a 400 naming the offending field.
func (h *handler) validationError(c *gin.Context, field string, err error) {
	response.Error(c, err, map[string]any{"field": field})
}

// renderError maps use case errors to responses. Anything unknown becomes a
// generic 500 carrying only the correlation id.
func (h *handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptyQuery):
		h.validationError(c, fieldQuery, err)
	case errors.Is(err, conversation.ErrEmptyCallerID):
		h.validationError(c, fieldPhone, err)
	case errors.Is(err, conversation.ErrEmptyConversationID):
		h.validationError(c, fieldConversationID, err)
	default:
		response.InternalError(c, log.TraceID(c.Request.Context()))
	}
}
