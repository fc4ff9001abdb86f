package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tk := Ticket{
		AppName:     "theater-booking",
		BookingID:   42,
		MovieTitle:  "The Matrix",
		ReleaseDate: time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC),
		Duration:    136,
		SeatNumber:  "A1",
		Username:    "user",
		BookingDate: time.Date(2026, 1, 2, 18, 30, 0, 0, time.UTC),
	}

	out, err := Render(tk)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestTicketCode(t *testing.T) {
	assert.Equal(t, "BOOKING-7-B3", Ticket{BookingID: 7, SeatNumber: "B3"}.Code())
}
