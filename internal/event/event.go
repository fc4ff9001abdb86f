// Package event carries booking notifications over RabbitMQ.
package event

import "time"

// BookingCreated is published once a reservation has been committed.
type BookingCreated struct {
	BookingID   int64     `json:"booking_id"`
	MovieID     int64     `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	SeatID      int64     `json:"seat_id"`
	SeatNumber  string    `json:"seat_number"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	BookingDate time.Time `json:"booking_date"`
}
