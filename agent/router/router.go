// Package router assembles the six travel agents into a star topology with
// triage at the center and routes user turns through the runtime.
package router

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
	promptx "github.com/wanderkit/concierge/agent/prompt"
	runtimex "github.com/wanderkit/concierge/agent/runtime"
	statex "github.com/wanderkit/concierge/agent/state"
)

// Gateway registration names for the tool servers the agents draw from.
const (
	ServerFlight       = "flight"
	ServerCancellation = "cancellation"
	ServerInvoice      = "invoice"
	ServerItinerary    = "itinerary"
	ServerHotel        = "hotel"
	ServerEmail        = "email"
)

// ToolSource yields the adapted tool definitions of a connected server.
// Satisfied by tool.Gateway.
type ToolSource interface {
	Tools(name string) []contractx.ToolDef
}

type Router struct {
	runner *runtimex.Runner
	store  statex.Store
	now    func() time.Time
}

// New wires the agents, their tools, and the hand-off table. The email
// server is optional; when absent its tool slice is simply empty.
func New(model runtimex.ChatModel, tools ToolSource, prompts promptx.PromptSet, store statex.Store) *Router {
	email := tools.Tools(ServerEmail)

	withEmail := func(defs ...[]contractx.ToolDef) []contractx.ToolDef {
		var out []contractx.ToolDef
		for _, d := range defs {
			out = append(out, d...)
		}
		return append(out, email...)
	}

	agents := []*runtimex.Agent{
		{
			Name:         contractx.AgentTriage,
			Description:  "Routes travel requests to the right specialist.",
			Instructions: prompts.Triage,
			Tools: withEmail(
				tools.Tools(ServerFlight),
				tools.Tools(ServerCancellation),
				tools.Tools(ServerInvoice),
				tools.Tools(ServerItinerary),
				tools.Tools(ServerHotel),
			),
		},
		{
			Name:         contractx.AgentFlightSearch,
			Description:  "Searches flights between cities on a given date.",
			Instructions: prompts.FlightSearch,
			Tools:        withEmail(tools.Tools(ServerFlight)),
		},
		{
			Name:         contractx.AgentFlightBooking,
			Description:  "Books flights and generates booking invoices.",
			Instructions: prompts.FlightBooking,
			Tools:        withEmail(tools.Tools(ServerFlight), tools.Tools(ServerInvoice)),
		},
		{
			Name:         contractx.AgentHotel,
			Description:  "Searches hotels and room offers by city.",
			Instructions: prompts.Hotel,
			Tools:        withEmail(tools.Tools(ServerHotel)),
		},
		{
			Name:         contractx.AgentItinerary,
			Description:  "Plans day-by-day itineraries and saves them as PDF.",
			Instructions: prompts.Itinerary,
			Tools:        withEmail(tools.Tools(ServerItinerary)),
		},
		{
			Name:         contractx.AgentCancellation,
			Description:  "Cancels existing flight bookings.",
			Instructions: prompts.Cancellation,
			Tools:        withEmail(tools.Tools(ServerCancellation)),
		},
	}

	return &Router{
		runner: runtimex.NewRunner(model, agents, Handoffs()),
		store:  store,
		now:    time.Now,
	}
}

// Handoffs is the star topology: triage reaches every specialist, each
// specialist only reaches back to triage.
func Handoffs() map[contractx.AgentName][]contractx.AgentName {
	specialists := []contractx.AgentName{
		contractx.AgentFlightSearch,
		contractx.AgentFlightBooking,
		contractx.AgentHotel,
		contractx.AgentItinerary,
		contractx.AgentCancellation,
	}
	table := map[contractx.AgentName][]contractx.AgentName{
		contractx.AgentTriage: specialists,
	}
	for _, s := range specialists {
		table[s] = []contractx.AgentName{contractx.AgentTriage}
	}
	return table
}

// Turn runs one user message through the currently active agent. The session
// is updated in place: history grows and Current follows any hand-offs.
func (r *Router) Turn(ctx context.Context, sess *statex.Session, text string) (runtimex.TurnOutput, error) {
	sess.AppendUser(text)

	out, err := r.runner.Run(ctx, sess.Current, sess.History)
	if err != nil {
		return runtimex.TurnOutput{}, err
	}

	sess.Append(out.Messages...)
	sess.Current = out.NextAgent
	sess.Touch(r.now())

	if r.store != nil {
		if err := r.store.Save(ctx, sess); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("persist session")
		}
	}
	return out, nil
}
