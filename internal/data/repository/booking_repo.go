package repository

import (
	"context"
	"errors"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Reserve locks the seat row, checks it is available, appends the booking
	// and marks the seat booked, all in one transaction.
	Reserve(ctx context.Context, movieID, seatID int64, userID uuid.UUID) (*entity.Booking, error)

	FindDetailByID(ctx context.Context, id int64) (*entity.BookingDetail, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Reserve(ctx context.Context, movieID, seatID int64, userID uuid.UUID) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin reservation transaction", zap.Error(err))
		return nil, fmt.Errorf("begin reservation: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	var status entity.SeatStatus
	err = tx.QueryRow(ctx, `SELECT status FROM seats WHERE id = $1 FOR UPDATE`, seatID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to lock seat",
			zap.Error(err),
			zap.Int64("seat_id", seatID),
		)
		return nil, fmt.Errorf("lock seat %d: %w", seatID, err)
	}

	if status != entity.SeatStatusAvailable {
		return nil, ErrSeatUnavailable
	}

	booking := &entity.Booking{
		MovieID: movieID,
		SeatID:  seatID,
		UserID:  userID,
	}

	insert := `
		INSERT INTO bookings (movie_id, seat_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, booking_date
	`
	err = tx.QueryRow(ctx, insert, movieID, seatID, userID).Scan(&booking.ID, &booking.BookingDate)
	if err != nil {
		return nil, r.mapReserveError(err, movieID, seatID)
	}

	if _, err := tx.Exec(ctx, `UPDATE seats SET status = 'booked', updated_at = NOW() WHERE id = $1`, seatID); err != nil {
		r.log.Error("Failed to mark seat booked",
			zap.Error(err),
			zap.Int64("seat_id", seatID),
		)
		return nil, fmt.Errorf("mark seat %d booked: %w", seatID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, r.mapReserveError(err, movieID, seatID)
	}

	return booking, nil
}

func (r *bookingRepository) mapReserveError(err error, movieID, seatID int64) error {
	if pgErr, ok := pgError(err); ok {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == bookingPairConstraint:
			return ErrDuplicateBooking
		case pgErr.Code == pgForeignKeyViolation:
			if missing, ok := bookingReferences[pgErr.ConstraintName]; ok {
				return missing
			}
			return ErrMissingReference
		}
	}

	r.log.Error("Failed to insert booking",
		zap.Error(err),
		zap.Int64("movie_id", movieID),
		zap.Int64("seat_id", seatID),
	)
	return fmt.Errorf("insert booking for movie %d seat %d: %w", movieID, seatID, err)
}

const bookingDetailQuery = `
	SELECT b.id, b.movie_id, b.seat_id, b.user_id, b.booking_date,
	       m.title, m.release_date, m.duration, s.seat_number, u.username
	FROM bookings b
	JOIN movies m ON m.id = b.movie_id
	JOIN seats s ON s.id = b.seat_id
	JOIN users u ON u.id = b.user_id
`

func scanBookingDetail(row pgx.Row) (*entity.BookingDetail, error) {
	var detail entity.BookingDetail
	err := row.Scan(
		&detail.ID,
		&detail.MovieID,
		&detail.SeatID,
		&detail.UserID,
		&detail.BookingDate,
		&detail.MovieTitle,
		&detail.ReleaseDate,
		&detail.Duration,
		&detail.SeatNumber,
		&detail.Username,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *bookingRepository) FindDetailByID(ctx context.Context, id int64) (*entity.BookingDetail, error) {
	detail, err := scanBookingDetail(r.db.QueryRow(ctx, bookingDetailQuery+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}

	return detail, nil
}

// FindByUserID returns the user's bookings, newest first.
func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE b.user_id = $1 ORDER BY b.booking_date DESC, b.id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	defer rows.Close()

	bookings := make([]*entity.BookingDetail, 0)
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}
