// Package inventory owns the flight_info, bookings, and invoices tables in a
// single on-disk SQLite file. Every operation opens a fresh connection and
// closes it before returning; there is no pool and no cache.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

const bookingDateLayout = "2006-01-02 15:04:05"

type Store struct {
	path string
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) open() (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", contractx.ErrIO, err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Init creates the three tables if they do not exist. Safe to call on every
// startup.
func (s *Store) Init(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	models := []any{(*Flight)(nil), (*Booking)(nil), (*Invoice)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table for %T: %v", contractx.ErrIO, model, err)
		}
	}
	return nil
}

// AddFlight inserts one flight row and fills in its generated id.
func (s *Store) AddFlight(ctx context.Context, f *Flight) error {
	if f == nil {
		return fmt.Errorf("%w: flight is nil", contractx.ErrValidation)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.NewInsert().Model(f).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert flight: %v", contractx.ErrIO, err)
	}
	return nil
}

// Search returns flights with open seats on the requested route and date,
// cheapest first.
func (s *Store) Search(ctx context.Context, departure, arrival, date string) ([]Flight, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var flights []Flight
	err = db.NewSelect().
		Model(&flights).
		Where("departure_location = ?", departure).
		Where("arrival_location = ?", arrival).
		Where("departure_date = ?", date).
		Where("seats_available > 0").
		Order("price ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: search flights: %v", contractx.ErrIO, err)
	}
	return flights, nil
}

// Book verifies seat availability, decrements the seat count, and inserts the
// booking row under one transaction. The payment amount is the flight price
// at booking time; the payment always settles as Completed in this demo.
func (s *Store) Book(ctx context.Context, flightID int64, customerID, cardLastFour string) (*BookingConfirmation, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var conf *BookingConfirmation
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var flight Flight
		err := tx.NewSelect().
			Model(&flight).
			Where("id = ?", flightID).
			Where("seats_available > 0").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: flight %d has no open seats or does not exist", contractx.ErrNotFound, flightID)
			}
			return fmt.Errorf("%w: load flight %d: %v", contractx.ErrIO, flightID, err)
		}

		_, err = tx.NewUpdate().
			Model((*Flight)(nil)).
			Set("seats_available = seats_available - 1").
			Where("id = ?", flightID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("%w: decrement seats for flight %d: %v", contractx.ErrIO, flightID, err)
		}

		booking := &Booking{
			CustomerID:    customerID,
			FlightID:      flightID,
			BookingDate:   s.now().Format(bookingDateLayout),
			PaymentAmount: flight.Price,
			PaymentStatus: "Completed",
			CardLastFour:  cardLastFour,
		}
		if _, err := tx.NewInsert().Model(booking).Exec(ctx); err != nil {
			return fmt.Errorf("%w: insert booking: %v", contractx.ErrIO, err)
		}

		conf = &BookingConfirmation{Booking: *booking, Flight: flight}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// Cancel hard-deletes the booking row. The seat count is intentionally left
// untouched; cancelled inventory is not restocked.
func (s *Store) Cancel(ctx context.Context, bookingID int64) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.NewDelete().
		Model((*Booking)(nil)).
		Where("id = ?", bookingID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: delete booking %d: %v", contractx.ErrIO, bookingID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete booking %d: %v", contractx.ErrIO, bookingID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: booking %d", contractx.ErrNotFound, bookingID)
	}
	return nil
}

// RecordInvoice writes the invoice row after its PDF has been generated. Not
// part of the booking transaction.
func (s *Store) RecordInvoice(ctx context.Context, inv *Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: invoice is nil", contractx.ErrValidation)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.NewInsert().Model(inv).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert invoice: %v", contractx.ErrIO, err)
	}
	return nil
}

// InvoicesByBooking lists the invoices recorded for one booking, oldest
// first.
func (s *Store) InvoicesByBooking(ctx context.Context, bookingID int64) ([]Invoice, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var invoices []Invoice
	err = db.NewSelect().
		Model(&invoices).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices for booking %d: %v", contractx.ErrIO, bookingID, err)
	}
	return invoices, nil
}

// GetFlight loads one flight by id regardless of seat availability.
func (s *Store) GetFlight(ctx context.Context, flightID int64) (*Flight, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var flight Flight
	err = db.NewSelect().Model(&flight).Where("id = ?", flightID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: flight %d", contractx.ErrNotFound, flightID)
		}
		return nil, fmt.Errorf("%w: load flight %d: %v", contractx.ErrIO, flightID, err)
	}
	return &flight, nil
}

// GetBooking loads one booking by id.
func (s *Store) GetBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var booking Booking
	err = db.NewSelect().Model(&booking).Where("id = ?", bookingID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", contractx.ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("%w: load booking %d: %v", contractx.ErrIO, bookingID, err)
	}
	return &booking, nil
}
