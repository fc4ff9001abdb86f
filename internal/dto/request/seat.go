package request

type SeatRequest struct {
	SeatNumber string `json:"seat_number" validate:"required,max=10,seatnumber"`
}

// SeatStatusRequest cannot set "booked"; only a reservation does that.
type SeatStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available maintenance"`
}
