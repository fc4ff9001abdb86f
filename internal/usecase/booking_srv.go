package usecase

import (
	"context"
	"errors"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/internal/event"
	"theater-booking/internal/ticket"
	"theater-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketFile is a rendered e-ticket.
type TicketFile struct {
	Filename string
	Content  []byte
}

type BookingService interface {
	// BookSeat reserves seatID for movieID on behalf of requesterID. At most
	// one call per (movie, seat) ever succeeds.
	BookSeat(ctx context.Context, requesterID uuid.UUID, seatID int64, req *request.BookSeatRequest) (*response.BookingResponse, error)

	GetUserBookings(ctx context.Context, requesterID uuid.UUID) ([]response.BookingResponse, error)
	GetUserBooking(ctx context.Context, requesterID uuid.UUID, bookingID int64) (*response.BookingResponse, error)
	RenderTicket(ctx context.Context, requesterID uuid.UUID, bookingID int64) (*TicketFile, error)
}

type bookingService struct {
	repo      *repository.Repository
	available *availableSeats
	publisher event.Publisher
	appName   string
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	available *availableSeats,
	publisher event.Publisher,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		available: available,
		publisher: publisher,
		appName:   config.App.Name,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) BookSeat(ctx context.Context, requesterID uuid.UUID, seatID int64, req *request.BookSeatRequest) (*response.BookingResponse, error) {
	if requesterID == uuid.Nil {
		return nil, invalidField("user", "requester is required")
	}
	if seatID <= 0 {
		return nil, invalidField("seat", "must be greater than 0")
	}
	if err := validate(req); err != nil {
		s.log.Warn("Book seat validation failed", zap.Error(err))
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie", req.MovieID)
	}

	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat == nil {
		return nil, notFound("seat", seatID)
	}
	if seat.Status != entity.SeatStatusAvailable {
		return nil, seatUnavailable(seat.SeatNumber)
	}

	// the checks above are repeated under the row lock
	booking, err := s.repo.Booking.Reserve(ctx, movie.ID, seat.ID, requesterID)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrMissingSeat):
		return nil, notFound("seat", seatID)
	case errors.Is(err, repository.ErrMissingMovie):
		return nil, notFound("movie", req.MovieID)
	case errors.Is(err, repository.ErrMissingUser):
		s.log.Warn("Requester vanished before booking", zap.String("user_id", requesterID.String()))
		return nil, notFound("user", requesterID)
	case errors.Is(err, repository.ErrSeatUnavailable):
		return nil, seatUnavailable(seat.SeatNumber)
	case errors.Is(err, repository.ErrDuplicateBooking):
		return nil, conflict("booking", fmt.Sprintf("seat %s is already booked for %s", seat.SeatNumber, movie.Title))
	case err != nil:
		s.log.Error("Failed to reserve seat",
			zap.Error(err),
			zap.Int64("movie_id", movie.ID),
			zap.Int64("seat_id", seat.ID),
		)
		return nil, fmt.Errorf("reserve seat: %w", err)
	}

	s.log.Info("Seat booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("movie_id", movie.ID),
		zap.String("seat_number", seat.SeatNumber),
		zap.String("user_id", requesterID.String()),
	)

	// the booking is committed from here on; nothing below may fail the call
	s.available.invalidate(ctx)

	detail := &entity.BookingDetail{
		Booking:     *booking,
		MovieTitle:  movie.Title,
		ReleaseDate: movie.ReleaseDate,
		Duration:    movie.Duration,
		SeatNumber:  seat.SeatNumber,
	}
	if user, err := s.repo.User.FindByID(ctx, requesterID); err != nil {
		s.log.Warn("Failed to load requester for booking", zap.Error(err))
	} else if user != nil {
		detail.Username = user.Username
	}

	s.publish(ctx, detail)

	resp := response.BookingToResponse(detail)
	return &resp, nil
}

func (s *bookingService) publish(ctx context.Context, detail *entity.BookingDetail) {
	ev := event.BookingCreated{
		BookingID:   detail.ID,
		MovieID:     detail.MovieID,
		MovieTitle:  detail.MovieTitle,
		SeatID:      detail.SeatID,
		SeatNumber:  detail.SeatNumber,
		UserID:      detail.UserID.String(),
		Username:    detail.Username,
		BookingDate: detail.BookingDate,
	}
	if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.Int64("booking_id", detail.ID),
		)
	}
}

func (s *bookingService) GetUserBookings(ctx context.Context, requesterID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetUserBooking(ctx context.Context, requesterID uuid.UUID, bookingID int64) (*response.BookingResponse, error) {
	detail, err := s.findOwned(ctx, requesterID, bookingID)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(detail)
	return &resp, nil
}

func (s *bookingService) RenderTicket(ctx context.Context, requesterID uuid.UUID, bookingID int64) (*TicketFile, error) {
	detail, err := s.findOwned(ctx, requesterID, bookingID)
	if err != nil {
		return nil, err
	}

	pdf, err := ticket.Render(ticket.Ticket{
		AppName:     s.appName,
		BookingID:   detail.ID,
		MovieTitle:  detail.MovieTitle,
		ReleaseDate: detail.ReleaseDate,
		Duration:    detail.Duration,
		SeatNumber:  detail.SeatNumber,
		Username:    detail.Username,
		BookingDate: detail.BookingDate,
	})
	if err != nil {
		s.log.Error("Failed to render ticket", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("render ticket: %w", err)
	}

	return &TicketFile{
		Filename: fmt.Sprintf("ticket-%d.pdf", detail.ID),
		Content:  pdf,
	}, nil
}

// findOwned hides bookings of other users behind NotFound.
func (s *bookingService) findOwned(ctx context.Context, requesterID uuid.UUID, bookingID int64) (*entity.BookingDetail, error) {
	if bookingID <= 0 {
		return nil, invalidField("id", "must be greater than 0")
	}

	detail, err := s.repo.Booking.FindDetailByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if detail == nil || detail.UserID != requesterID {
		return nil, notFound("booking", bookingID)
	}
	return detail, nil
}

func seatUnavailable(seatNumber string) error {
	return conflict("seat", fmt.Sprintf("seat %s is not available", seatNumber))
}
