package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/internal/data/repository"
	"theater-booking/pkg/middleware"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	rdb *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))

		// the limiter runs after auth so it can key on the user
		r.With(middleware.RateLimit(rdb, config.RateLimit, "booking", log)).
			Post("/api/seats/{id}/book", bookingHandler.BookSeat)

		r.Get("/api/bookings", bookingHandler.GetUserBookings)
		r.Get("/api/bookings/history", bookingHandler.GetUserBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetUserBooking)
		r.Get("/api/bookings/{id}/ticket", bookingHandler.GetTicket)
	})
}
