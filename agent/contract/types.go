package contract

import "context"

type AgentName string

const (
	AgentTriage        AgentName = "triage"
	AgentFlightSearch  AgentName = "flight_search"
	AgentFlightBooking AgentName = "flight_booking"
	AgentHotel         AgentName = "hotel"
	AgentItinerary     AgentName = "itinerary"
	AgentCancellation  AgentName = "cancellation"
)

// ToolDef is a tool exposed to the model: a strict-mode input schema plus the
// invoker that forwards the call to the owning tool server.
type ToolDef struct {
	Name        string
	Description string
	Schema      map[string]any
	Invoke      ToolFunc
}

type ToolFunc func(ctx context.Context, args map[string]any) (ToolResult, error)

// ToolResult carries the text payload a tool server returned. IsError marks
// the server's string-keyed failure shape; the content is then the bare
// message, surfaced to the conversation as-is.
type ToolResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

// Handoff records a transfer of the active agent during one turn.
type Handoff struct {
	From AgentName `json:"from"`
	To   AgentName `json:"to"`
}
