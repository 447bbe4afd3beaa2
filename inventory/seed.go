package inventory

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

// Cities covered by the sample inventory. The agent prompts list the same
// set, so keep the two in sync.
var Cities = []string{
	"New York", "Los Angeles", "Chicago", "Miami", "San Francisco",
	"Seattle", "Dallas", "Denver", "Boston", "Atlanta",
	"London", "Paris", "Tokyo", "Dubai", "Sydney",
}

var airlines = []string{
	"American Airlines", "Delta Air Lines", "United Airlines",
	"Southwest Airlines", "British Airways", "Air France",
	"Lufthansa", "Emirates", "Qatar Airways", "Singapore Airlines",
}

// Seed fills flight_info with random flights over the next `days` days.
// Roughly 10% of the city pairs get a flight per day. Returns the number of
// flights inserted.
func (s *Store) Seed(ctx context.Context, days int, rng *rand.Rand) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: days must be positive", contractx.ErrValidation)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	flights := generateFlights(days, rng, s.now())
	if len(flights) == 0 {
		return 0, nil
	}

	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := db.NewInsert().Model(&flights).Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: seed flights: %v", contractx.ErrIO, err)
	}
	return len(flights), nil
}

func generateFlights(days int, rng *rand.Rand, start time.Time) []Flight {
	var flights []Flight
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day).Format(time.DateOnly)
		for i := range Cities {
			for j := range Cities {
				if i == j || rng.Float64() >= 0.1 {
					continue
				}
				airline := airlines[rng.Intn(len(airlines))]
				departureHour := 6 + rng.Intn(17)
				arrivalHour := (departureHour + 1 + rng.Intn(10)) % 24

				flights = append(flights, Flight{
					FlightNumber:      airlineCode(airline) + fmt.Sprint(1000+rng.Intn(9000)),
					Airline:           airline,
					DepartureLocation: Cities[i],
					ArrivalLocation:   Cities[j],
					DepartureDate:     date,
					DepartureTime:     fmt.Sprintf("%02d:%02d", departureHour, rng.Intn(60)),
					ArrivalTime:       fmt.Sprintf("%02d:%02d", arrivalHour, rng.Intn(60)),
					Price:             math.Round((150+rng.Float64()*1850)*100) / 100,
					SeatsAvailable:    rng.Intn(201),
				})
			}
		}
	}
	return flights
}

func airlineCode(airline string) string {
	var code strings.Builder
	for _, word := range strings.Fields(airline) {
		code.WriteByte(word[0])
	}
	return strings.ToUpper(code.String())
}
