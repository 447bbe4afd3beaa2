package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSetFillsEmailPlaceholders(t *testing.T) {
	set := LoadPromptSet(EmailConfig{From: "agent@wanderkit.dev", To: "traveler@example.com"})

	for name, text := range map[string]string{
		"flight_booking": set.FlightBooking,
		"cancellation":   set.Cancellation,
	} {
		if strings.Contains(text, "{email_from}") || strings.Contains(text, "{email_to}") {
			t.Errorf("%s prompt still has placeholders", name)
		}
		if !strings.Contains(text, "agent@wanderkit.dev") || !strings.Contains(text, "traveler@example.com") {
			t.Errorf("%s prompt missing substituted addresses", name)
		}
	}
}

func TestLoadPromptSetPrependsHandoffContext(t *testing.T) {
	set := LoadPromptSet(EmailConfig{})

	for name, text := range map[string]string{
		"triage":         set.Triage,
		"flight_search":  set.FlightSearch,
		"flight_booking": set.FlightBooking,
		"hotel":          set.Hotel,
		"itinerary":      set.Itinerary,
		"cancellation":   set.Cancellation,
	} {
		if !strings.HasPrefix(text, "# System context") {
			t.Errorf("%s prompt missing handoff preamble", name)
		}
		if strings.TrimSpace(strings.TrimPrefix(text, handoffPrefix)) == "" {
			t.Errorf("%s prompt body is empty", name)
		}
	}
}
