package adaptor

import (
	"fmt"
	"net/http"
	"strconv"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// BookSeat handles POST /api/seats/{id}/book
func (h *BookingHandler) BookSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	seatID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid seat ID", nil)
		return
	}

	var req request.BookSeatRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", map[string]string{
			"movie_id": "must be a number",
		})
		return
	}

	booking, err := h.service.BookSeat(r.Context(), userID, seatID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "book seat")
		return
	}

	utils.ResponseCreated(w, "Seat booked successfully", booking)
}

// GetUserBookings handles GET /api/bookings and GET /api/bookings/history
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetUserBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetUserBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookingID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.GetUserBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get user booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

// GetTicket handles GET /api/bookings/{id}/ticket
func (h *BookingHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookingID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	ticket, err := h.service.RenderTicket(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "render ticket")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", ticket.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(ticket.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(ticket.Content); err != nil {
		h.log.Warn("Failed to write ticket", zap.Error(err), zap.Int64("booking_id", bookingID))
	}
}
