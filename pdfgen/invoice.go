// Package pdfgen renders the invoice and itinerary artifacts. Renderers are
// pure writers: given structured input they produce one PDF at a
// deterministic path and report that path.
package pdfgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	BookingID     int64
	CustomerID    string
	FlightNumber  string
	Airline       string
	DepartureCity string
	ArrivalCity   string
	DepartureDate string
	DepartureTime string
	PaymentAmount float64
	CardLastFour  string
}

// RenderInvoice writes invoice_<bookingId>_<invoiceNumber>.pdf under dir and
// returns the full path.
func RenderInvoice(dir string, data InvoiceData) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create invoice dir: %v", contractx.ErrIO, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("invoice_%d_%s.pdf", data.BookingID, data.InvoiceNumber))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "FLIGHT BOOKING INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	labelled(pdf, "Invoice Number:", data.InvoiceNumber)
	labelled(pdf, "Invoice Date:", data.InvoiceDate)
	labelled(pdf, "Booking ID:", fmt.Sprint(data.BookingID))
	labelled(pdf, "Customer ID:", data.CustomerID)
	pdf.Ln(10)

	heading(pdf, "Flight Details")
	labelled(pdf, "Flight Number:", data.FlightNumber)
	labelled(pdf, "Airline:", data.Airline)
	labelled(pdf, "From:", data.DepartureCity)
	labelled(pdf, "To:", data.ArrivalCity)
	labelled(pdf, "Date:", data.DepartureDate)
	labelled(pdf, "Departure Time:", data.DepartureTime)
	pdf.Ln(10)

	heading(pdf, "Payment Details")
	labelled(pdf, "Payment Amount:", fmt.Sprintf("$%.2f", data.PaymentAmount))
	labelled(pdf, "Payment Method:", fmt.Sprintf("Credit Card (ending in %s)", data.CardLastFour))
	labelled(pdf, "Payment Status:", "Completed")

	pdf.Ln(20)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(190, 10, "Thank you for your booking!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: write invoice pdf: %v", contractx.ErrIO, err)
	}
	return path, nil
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, title, "", 1, "L", false, 0, "")
}

func labelled(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 10, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(140, 10, value, "", 1, "L", false, 0, "")
}
