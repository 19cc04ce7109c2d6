package conversation

import "ecodrive-query-api/internal/model"

// --- UseCase Inputs ---

type RouteInput struct {
	Query          string
	CallerID       string
	ConversationID string // optional, a new id is generated when empty
}

// --- UseCase Outputs ---

type RouteOutput struct {
	Answer         string
	Intent         model.Intent
	ConversationID string
}

type DeleteOutput struct {
	Found bool
}

type HistoryOutput struct {
	ConversationID string
	Turns          model.History
}
