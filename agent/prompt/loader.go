package prompt

import (
	_ "embed"
	"strings"
)

// handoffPrefix mirrors the recommended preamble for models that decide
// hand-offs via transfer_to_* function calls.
const handoffPrefix = `# System context
You are part of a multi-agent travel assistant. Agents transfer conversations
between each other using transfer_to_<agent> function calls. Transfers are
handled seamlessly in the background; never mention or draw attention to them
in conversation with the user.`

var (
	//go:embed template/triage.txt
	triageRaw string

	//go:embed template/flight_search.txt
	flightSearchRaw string

	//go:embed template/flight_booking.txt
	flightBookingRaw string

	//go:embed template/hotel.txt
	hotelRaw string

	//go:embed template/itinerary.txt
	itineraryRaw string

	//go:embed template/cancellation.txt
	cancellationRaw string
)

// EmailConfig fills the "[Send Email from X to Y]" placeholders in the
// templates.
type EmailConfig struct {
	From string
	To   string
}

type PromptSet struct {
	Triage        string
	FlightSearch  string
	FlightBooking string
	Hotel         string
	Itinerary     string
	Cancellation  string
}

// LoadPromptSet renders all agent instructions. The embed is compile-time;
// this is safe to call concurrently.
func LoadPromptSet(email EmailConfig) PromptSet {
	r := strings.NewReplacer(
		"{email_from}", email.From,
		"{email_to}", email.To,
	)
	render := func(raw string) string {
		return handoffPrefix + "\n\n" + strings.TrimSpace(r.Replace(raw))
	}
	return PromptSet{
		Triage:        render(triageRaw),
		FlightSearch:  render(flightSearchRaw),
		FlightBooking: render(flightBookingRaw),
		Hotel:         render(hotelRaw),
		Itinerary:     render(itineraryRaw),
		Cancellation:  render(cancellationRaw),
	}
}
