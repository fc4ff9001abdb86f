package entity

type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusBooked      SeatStatus = "booked"
	SeatStatusMaintenance SeatStatus = "maintenance"
)

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusBooked, SeatStatusMaintenance:
		return true
	}
	return false
}

type Seat struct {
	ID         int64      `db:"id"`
	SeatNumber string     `db:"seat_number"` // A1, A2, B1, etc.
	Status     SeatStatus `db:"status"`
	Timestamps
}
