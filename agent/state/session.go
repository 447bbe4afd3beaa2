package state

import (
	"time"

	openaisdk "github.com/openai/openai-go/v2"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

// Session is the explicit per-conversation state threaded through every turn:
// the currently active agent plus the growing message history. The router
// never keeps conversation state anywhere else.
type Session struct {
	ID        string
	Current   contractx.AgentName
	History   []openaisdk.ChatCompletionMessageParamUnion
	UpdatedAt time.Time
}

func NewSession(id string, start contractx.AgentName, now time.Time) *Session {
	return &Session{
		ID:        id,
		Current:   start,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) AppendUser(text string) {
	s.History = append(s.History, openaisdk.UserMessage(text))
}

func (s *Session) Append(msgs ...openaisdk.ChatCompletionMessageParamUnion) {
	s.History = append(s.History, msgs...)
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}
