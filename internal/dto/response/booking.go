package response

import (
	"time"

	"theater-booking/internal/data/entity"
)

type BookingResponse struct {
	ID          int64     `json:"id"`
	Movie       int64     `json:"movie"`
	MovieTitle  string    `json:"movie_title"`
	Seat        int64     `json:"seat"`
	SeatNumber  string    `json:"seat_number"`
	User        string    `json:"user"`
	Username    string    `json:"username"`
	BookingDate time.Time `json:"booking_date"`
}

func BookingToResponse(b *entity.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Movie:       b.MovieID,
		MovieTitle:  b.MovieTitle,
		Seat:        b.SeatID,
		SeatNumber:  b.SeatNumber,
		User:        b.UserID.String(),
		Username:    b.Username,
		BookingDate: b.BookingDate,
	}
}

func BookingsToResponse(bookings []*entity.BookingDetail) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}
