package pdfgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

const itineraryTimestampLayout = "20060102_150405"

// RenderItinerary writes the free-text plan as itinerary_<timestamp>.pdf
// under dir and returns the full path. Blank lines are skipped.
func RenderItinerary(dir, plan string, ts time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create itinerary dir: %v", contractx.ErrIO, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("itinerary_%s.pdf", ts.Format(itineraryTimestampLayout)))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	for _, line := range strings.Split(plan, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.MultiCell(190, 10, line, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: write itinerary pdf: %v", contractx.ErrIO, err)
	}
	return path, nil
}
