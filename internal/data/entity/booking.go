package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one committed row of the reservation ledger. (MovieID, SeatID)
// is unique across all bookings.
type Booking struct {
	ID          int64     `db:"id"`
	MovieID     int64     `db:"movie_id"`
	SeatID      int64     `db:"seat_id"`
	UserID      uuid.UUID `db:"user_id"`
	BookingDate time.Time `db:"booking_date"`
}

// BookingDetail is a booking joined with the labels shown to the requester.
type BookingDetail struct {
	Booking
	MovieTitle  string    `db:"movie_title"`
	ReleaseDate time.Time `db:"release_date"`
	Duration    int       `db:"duration"`
	SeatNumber  string    `db:"seat_number"`
	Username    string    `db:"username"`
}
