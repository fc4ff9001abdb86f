package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors let the usecase layer tell storage outcomes apart without
// inspecting driver errors.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrInUse            = errors.New("record is still referenced")
	ErrSeatUnavailable  = errors.New("seat is not available")
	ErrDuplicateBooking = errors.New("seat already booked for this movie")

	// ErrMissingReference means an insert pointed at a row that no longer exists.
	// The errors below wrap it and name the missing row.
	ErrMissingReference = errors.New("referenced record does not exist")
	ErrMissingMovie     = fmt.Errorf("movie: %w", ErrMissingReference)
	ErrMissingSeat      = fmt.Errorf("seat: %w", ErrMissingReference)
	ErrMissingUser      = fmt.Errorf("user: %w", ErrMissingReference)
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	bookingPairConstraint = "bookings_movie_seat_key"
)

// bookingReferences maps the foreign keys of bookings to the row they need.
var bookingReferences = map[string]error{
	"bookings_movie_id_fkey": ErrMissingMovie,
	"bookings_seat_id_fkey":  ErrMissingSeat,
	"bookings_user_id_fkey":  ErrMissingUser,
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgForeignKeyViolation
}
