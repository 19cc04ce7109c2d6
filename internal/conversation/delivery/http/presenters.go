package http

import (
	"strings"

	"ecodrive-query-api/internal/conversation"
)

const maxConversationIDLength = 128

// --- Request DTOs ---

type queryReq struct {
	Query          string `json:"query"`
	Phone          string `json:"phone"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// normalize trims the phone, which is a lookup key. Query and conversation id
// are passed through untouched.
func (r *queryReq) normalize() {
	r.Phone = strings.TrimSpace(r.Phone)
}

// validate returns the offending field name with the error.
func (r queryReq) validate() (string, error) {
	if strings.TrimSpace(r.Query) == "" {
		return fieldQuery, conversation.ErrEmptyQuery
	}
	if r.Phone == "" {
		return fieldPhone, conversation.ErrEmptyCallerID
	}
	if len(r.ConversationID) > maxConversationIDLength {
		return fieldConversationID, errConversationIDTooLong
	}
	return "", nil
}

func (r queryReq) toInput() conversation.RouteInput {
	return conversation.RouteInput{
		Query:          r.Query,
		CallerID:       r.Phone,
		ConversationID: r.ConversationID,
	}
}

// --- Response DTOs ---

type queryResp struct {
	Answer         string `json:"answer"`
	Intent         string `json:"intent"`
	ConversationID string `json:"conversation_id"`
}

func (h *handler) newQueryResp(o conversation.RouteOutput) queryResp {
	return queryResp{
		Answer:         o.Answer,
		Intent:         o.Intent.String(),
		ConversationID: o.ConversationID,
	}
}

type deleteResp struct {
	Found bool `json:"found"`
}

type turnResp struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResp struct {
	ConversationID string     `json:"conversation_id"`
	Turns          []turnResp `json:"turns"`
}

func (h *handler) newHistoryResp(o conversation.HistoryOutput) historyResp {
	turns := make([]turnResp, 0, len(o.Turns))
	for _, t := range o.Turns {
		turns = append(turns, turnResp{Role: string(t.Role), Content: t.Content})
	}
	return historyResp{ConversationID: o.ConversationID, Turns: turns}
}
