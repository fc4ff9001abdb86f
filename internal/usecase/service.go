package usecase

import (
	"theater-booking/internal/data/repository"
	"theater-booking/internal/event"
	"theater-booking/pkg/cache"
	"theater-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Movie   MovieService
	Seat    SeatService
	Booking BookingService
	Seed    SeedService
}

// NewService wires the services. seatCache may be nil and publisher may be
// event.NopPublisher when Redis or the broker are not configured.
func NewService(
	repo *repository.Repository,
	seatCache *cache.Cache,
	publisher event.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	available := newAvailableSeats(repo.Seat, seatCache, log)
	seats := NewSeatService(repo, available, log)

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Movie:   NewMovieService(repo, seats, log),
		Seat:    seats,
		Booking: NewBookingService(repo, available, publisher, config, log),
		Seed:    NewSeedService(repo, config, log),
	}
}
