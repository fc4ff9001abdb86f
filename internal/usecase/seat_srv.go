package usecase

import (
	"context"
	"errors"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/cache"

	"go.uber.org/zap"
)

type SeatService interface {
	GetSeats(ctx context.Context) ([]response.SeatResponse, error)
	GetAvailableSeats(ctx context.Context) ([]response.SeatResponse, error)
	GetSeatByID(ctx context.Context, seatID int64) (*response.SeatResponse, error)

	// Admin endpoints
	CreateSeat(ctx context.Context, req *request.SeatRequest) (*response.SeatResponse, error)
	UpdateSeatStatus(ctx context.Context, seatID int64, req *request.SeatStatusRequest) (*response.SeatResponse, error)
}

const availableSeatsKey = "seats:available"

// availableSeats is the read-through cache of the available-seat listing.
// Every seat status change must call invalidate.
type availableSeats struct {
	seats repository.SeatRepository
	cache *cache.Cache
	log   *zap.Logger
}

func newAvailableSeats(seats repository.SeatRepository, c *cache.Cache, log *zap.Logger) *availableSeats {
	return &availableSeats{
		seats: seats,
		cache: c,
		log:   log.With(zap.String("cache", availableSeatsKey)),
	}
}

func (a *availableSeats) list(ctx context.Context) ([]response.SeatResponse, error) {
	var cached []response.SeatResponse
	hit, err := a.cache.GetJSON(ctx, availableSeatsKey, &cached)
	if err != nil {
		a.log.Warn("Seat cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	// taken before the read so a booking committed meanwhile blocks the write
	version, verErr := a.cache.Version(ctx, availableSeatsKey)
	if verErr != nil {
		a.log.Warn("Seat cache version read failed", zap.Error(verErr))
	}

	seats, err := a.seats.FindByStatus(ctx, entity.SeatStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("list available seats: %w", err)
	}

	resp := response.SeatsToResponse(seats)
	if verErr == nil {
		stored, err := a.cache.SetJSONIfVersion(ctx, availableSeatsKey, resp, version)
		if err != nil {
			a.log.Warn("Seat cache write failed", zap.Error(err))
		} else if !stored {
			a.log.Debug("Seat listing changed during load, not cached")
		}
	}
	return resp, nil
}

func (a *availableSeats) invalidate(ctx context.Context) {
	if err := a.cache.Invalidate(ctx, availableSeatsKey); err != nil {
		a.log.Warn("Seat cache invalidation failed", zap.Error(err))
	}
}

type seatService struct {
	repo      *repository.Repository
	available *availableSeats
	log       *zap.Logger
}

func NewSeatService(repo *repository.Repository, available *availableSeats, log *zap.Logger) SeatService {
	return &seatService{
		repo:      repo,
		available: available,
		log:       log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) GetSeats(ctx context.Context) ([]response.SeatResponse, error) {
	seats, err := s.repo.Seat.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get seats: %w", err)
	}
	return response.SeatsToResponse(seats), nil
}

func (s *seatService) GetAvailableSeats(ctx context.Context) ([]response.SeatResponse, error) {
	return s.available.list(ctx)
}

func (s *seatService) GetSeatByID(ctx context.Context, seatID int64) (*response.SeatResponse, error) {
	if seatID <= 0 {
		return nil, invalidField("id", "must be greater than 0")
	}

	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat == nil {
		return nil, notFound("seat", seatID)
	}

	resp := response.SeatToResponse(seat)
	return &resp, nil
}

func (s *seatService) CreateSeat(ctx context.Context, req *request.SeatRequest) (*response.SeatResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	seat := &entity.Seat{
		SeatNumber: req.SeatNumber,
		Status:     entity.SeatStatusAvailable,
	}

	if err := s.repo.Seat.Create(ctx, seat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("seat", fmt.Sprintf("seat %s already exists", req.SeatNumber))
		}
		return nil, fmt.Errorf("create seat: %w", err)
	}
	s.available.invalidate(ctx)

	s.log.Info("Seat created",
		zap.Int64("seat_id", seat.ID),
		zap.String("seat_number", seat.SeatNumber),
	)

	resp := response.SeatToResponse(seat)
	return &resp, nil
}

func (s *seatService) UpdateSeatStatus(ctx context.Context, seatID int64, req *request.SeatStatusRequest) (*response.SeatResponse, error) {
	if seatID <= 0 {
		return nil, invalidField("id", "must be greater than 0")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	seat, err := s.repo.Seat.UpdateStatus(ctx, seatID, entity.SeatStatus(req.Status))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("seat", seatID)
	case errors.Is(err, repository.ErrSeatUnavailable):
		return nil, conflict("seat", fmt.Sprintf("seat %d is booked and cannot be changed", seatID))
	case err != nil:
		return nil, fmt.Errorf("update seat status: %w", err)
	}
	s.available.invalidate(ctx)

	resp := response.SeatToResponse(seat)
	return &resp, nil
}
