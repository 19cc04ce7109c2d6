package conversation

import "errors"

var (
	ErrEmptyQuery          = errors.New("query is required")
	ErrEmptyCallerID       = errors.New("phone is required")
	ErrEmptyConversationID = errors.New("conversation_id is required")

	// ErrProcessingFailed wraps every local failure of a cycle: id generation,
	// history load or save, or a cancelled wait on the conversation lock.
	ErrProcessingFailed = errors.New("conversation processing failed")
)
