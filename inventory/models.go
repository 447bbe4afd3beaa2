package inventory

import "github.com/uptrace/bun"

// Flight is a row of flight_info. The JSON tags match the wire shape the
// flight tools return.
type Flight struct {
	bun.BaseModel `bun:"table:flight_info" json:"-"`

	ID                int64   `bun:"id,pk,autoincrement" json:"flight_id"`
	FlightNumber      string  `bun:"flight_number,notnull" json:"flight_number"`
	Airline           string  `bun:"airline,notnull" json:"airline"`
	DepartureLocation string  `bun:"departure_location,notnull" json:"departure_location"`
	ArrivalLocation   string  `bun:"arrival_location,notnull" json:"arrival_location"`
	DepartureDate     string  `bun:"departure_date,notnull" json:"departure_date"`
	DepartureTime     string  `bun:"departure_time,notnull" json:"departure_time"`
	ArrivalTime       string  `bun:"arrival_time,notnull" json:"arrival_time"`
	Price             float64 `bun:"price,notnull" json:"price"`
	SeatsAvailable    int     `bun:"seats_available,notnull" json:"seats_available"`
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings" json:"-"`

	ID            int64   `bun:"id,pk,autoincrement" json:"booking_id"`
	CustomerID    string  `bun:"customer_id,notnull" json:"customer_id"`
	FlightID      int64   `bun:"flight_id,notnull" json:"flight_id"`
	BookingDate   string  `bun:"booking_date,notnull" json:"booking_date"`
	PaymentAmount float64 `bun:"payment_amount,notnull" json:"payment_amount"`
	PaymentStatus string  `bun:"payment_status,notnull" json:"payment_status"`
	CardLastFour  string  `bun:"card_last_four,notnull" json:"card_last_four"`
}

type Invoice struct {
	bun.BaseModel `bun:"table:invoices" json:"-"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	BookingID     int64  `bun:"booking_id,notnull" json:"booking_id"`
	InvoiceNumber string `bun:"invoice_number,notnull" json:"invoice_number"`
	InvoiceDate   string `bun:"invoice_date,notnull" json:"invoice_date"`
	Filename      string `bun:"filename,notnull" json:"filename"`
}

// BookingConfirmation is what Book returns: the inserted booking plus the
// flight as it looked before the seat decrement.
type BookingConfirmation struct {
	Booking Booking
	Flight  Flight
}
