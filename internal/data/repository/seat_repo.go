package repository

import (
	"context"
	"errors"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	Create(ctx context.Context, seat *entity.Seat) error
	FindByID(ctx context.Context, id int64) (*entity.Seat, error)
	FindAll(ctx context.Context) ([]*entity.Seat, error)
	FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error)

	// UpdateStatus changes the status of a seat that is not booked. Booked
	// seats are only ever written by BookingRepository.Reserve.
	UpdateStatus(ctx context.Context, id int64, status entity.SeatStatus) (*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const seatColumns = `id, seat_number, status, created_at, updated_at`

func scanSeat(row pgx.Row) (*entity.Seat, error) {
	var seat entity.Seat
	err := row.Scan(
		&seat.ID,
		&seat.SeatNumber,
		&seat.Status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) Create(ctx context.Context, seat *entity.Seat) error {
	if seat.Status == "" {
		seat.Status = entity.SeatStatusAvailable
	}

	query := `
		INSERT INTO seats (seat_number, status)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, seat.SeatNumber, seat.Status).
		Scan(&seat.ID, &seat.CreatedAt, &seat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to create seat",
			zap.Error(err),
			zap.String("seat_number", seat.SeatNumber),
		)
		return fmt.Errorf("create seat %s: %w", seat.SeatNumber, err)
	}

	return nil
}

func (r *seatRepository) FindByID(ctx context.Context, id int64) (*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	seat, err := scanSeat(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.Int64("seat_id", id),
		)
		return nil, fmt.Errorf("find seat %d: %w", id, err)
	}

	return seat, nil
}

func (r *seatRepository) FindAll(ctx context.Context) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats ORDER BY seat_number`
	return r.list(ctx, query)
}

func (r *seatRepository) FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE status = $1 ORDER BY seat_number`
	return r.list(ctx, query, status)
}

func (r *seatRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list seats", zap.Error(err))
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	seats := make([]*entity.Seat, 0)
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) UpdateStatus(ctx context.Context, id int64, status entity.SeatStatus) (*entity.Seat, error) {
	query := `
		UPDATE seats
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'booked'
		RETURNING ` + seatColumns

	seat, err := scanSeat(r.db.QueryRow(ctx, query, id, status))
	if err == nil {
		r.log.Info("Seat status changed",
			zap.Int64("seat_id", id),
			zap.String("status", string(status)),
		)
		return seat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to update seat status",
			zap.Error(err),
			zap.Int64("seat_id", id),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update seat %d status: %w", id, err)
	}

	// no row updated: either the seat is missing or it is booked
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	return nil, ErrSeatUnavailable
}
