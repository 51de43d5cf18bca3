// Package invoice renders the PDF receipt attached to payment
// confirmation emails and archived on cloudinary.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Data struct {
	TransactionID string
	UserName      string
	TourTitle     string
	BookingDate   string
	GuestCount    int
	TotalAmount   float64
	PaidAt        time.Time
}

// Render produces the invoice PDF as raw bytes.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Roamly Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, "Roamly", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, "Payment Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 9, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 9, value, "", 1, "L", false, 0, "")
	}

	row("Transaction ID", d.TransactionID)
	row("Customer", d.UserName)
	row("Tour", d.TourTitle)
	row("Booking Date", d.BookingDate)
	row("Guests", fmt.Sprintf("%d", d.GuestCount))
	row("Paid At", d.PaidAt.Format("02 Jan 2006 15:04"))

	pdf.Ln(4)
	pdf.SetDrawColor(200, 200, 200)
	x, y := pdf.GetXY()
	pdf.Line(x, y, 200, y)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(55, 10, "Total Paid", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("BDT %.2f", d.TotalAmount), "", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Thank you for booking with Roamly.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %v", err)
	}
	return buf.Bytes(), nil
}
