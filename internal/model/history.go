package model

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are never modified once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered list of turns of one conversation.
// Values are treated as immutable snapshots: Append returns a new slice.
type History []Turn

// Append returns a new History with turns added. The receiver's backing array is never shared.
func (h History) Append(turns ...Turn) History {
	out := make(History, len(h), len(h)+len(turns))
	copy(out, h)
	return append(out, turns...)
}

// HasAssistantTurn reports whether the assistant has already spoken.
func (h History) HasAssistantTurn() bool {
	for _, t := range h {
		if t.Role == RoleAssistant {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
