package response

import "theater-booking/internal/data/entity"

type SeatResponse struct {
	ID            int64             `json:"id"`
	SeatNumber    string            `json:"seat_number"`
	BookingStatus entity.SeatStatus `json:"booking_status"`
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:            seat.ID,
		SeatNumber:    seat.SeatNumber,
		BookingStatus: seat.Status,
	}
}

func SeatsToResponse(seats []*entity.Seat) []SeatResponse {
	out := make([]SeatResponse, len(seats))
	for i, s := range seats {
		out[i] = SeatToResponse(s)
	}
	return out
}
