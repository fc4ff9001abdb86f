package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/internal/data/repository"
	"theater-booking/pkg/middleware"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeat(
	r chi.Router,
	seatHandler *adaptor.SeatHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/seats", seatHandler.GetSeats)
	r.Get("/api/seats/available", seatHandler.GetAvailableSeats)
	r.Get("/api/seats/{id}", seatHandler.GetSeatByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/seats", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", seatHandler.CreateSeat)
		r.Patch("/{id}/status", seatHandler.UpdateSeatStatus)
	})
}
