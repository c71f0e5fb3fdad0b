package export

import (
	"bytes"
	"fmt"

	"bookingdesk/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"PNR", 30},
	{"Passenger", 55},
	{"Airline", 35},
	{"Sale Price", 30},
	{"Status", 40},
}

// BookingsPDF renders the booking report as a single table
func BookingsPDF(report *entity.BookingReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Booking Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if report.StartDate != "" || report.EndDate != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", orDash(report.StartDate), orDash(report.EndDate)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(54, 96, 146)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range report.Rows {
		cells := []string{
			row.PNR,
			row.PaxName,
			row.Airline,
			fmt.Sprintf("%.2f", row.SalePrice),
			row.Status,
		}
		for i, col := range pdfColumns {
			align := "L"
			if i == 3 {
				align = "R"
			}
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
