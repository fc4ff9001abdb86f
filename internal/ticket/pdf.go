// Package ticket renders single-page PDF e-tickets.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

type Ticket struct {
	AppName     string
	BookingID   int64
	MovieTitle  string
	ReleaseDate time.Time
	Duration    int
	SeatNumber  string
	Username    string
	BookingDate time.Time
}

// Code is the value encoded in the QR block and checked at the door.
func (t Ticket) Code() string {
	return fmt.Sprintf("BOOKING-%d-%s", t.BookingID, t.SeatNumber)
}

// Render returns the ticket as PDF bytes.
func Render(t Ticket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, t.AppName+" e-TICKET", "", 1, "L", false, 0, "")
	pdf.SetDrawColor(210, 210, 210)
	pdf.Line(12, pdf.GetY()+2, 136, pdf.GetY()+2)
	pdf.Ln(8)

	// Booking details
	pdf.SetFont("Helvetica", "B", 15)
	pdf.MultiCell(80, 8, t.MovieTitle, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Booking", fmt.Sprintf("#%d", t.BookingID)},
		{"Seat", t.SeatNumber},
		{"Guest", t.Username},
		{"Released", t.ReleaseDate.Format("2006-01-02")},
		{"Duration", fmt.Sprintf("%d min", t.Duration)},
		{"Booked at", t.BookingDate.UTC().Format("2006-01-02 15:04 MST")},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(28, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}

	// QR
	png, err := qrcode.Encode(t.Code(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode ticket qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 96, 30, 40, 0, false, opts, 0, "")

	// Footer
	pdf.SetY(190)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Present this code at the entrance. One seat per ticket.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
