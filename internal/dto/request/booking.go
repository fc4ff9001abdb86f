package request

// BookSeatRequest is the body of POST /api/seats/{id}/book. The seat comes
// from the path.
type BookSeatRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}
