package adaptor

import (
	"net/http"

	"theater-booking/internal/dto/request"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetSeats handles GET /api/seats
func (h *SeatHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.GetSeats(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// GetAvailableSeats handles GET /api/seats/available
func (h *SeatHandler) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.GetAvailableSeats(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get available seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// GetSeatByID handles GET /api/seats/{id}
func (h *SeatHandler) GetSeatByID(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid seat ID", nil)
		return
	}

	seat, err := h.service.GetSeatByID(r.Context(), seatID)
	if err != nil {
		writeServiceError(w, h.log, err, "get seat by ID")
		return
	}

	utils.ResponseSuccess(w, "Seat retrieved successfully", seat)
}

// CreateSeat handles POST /api/admin/seats
func (h *SeatHandler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	var req request.SeatRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	seat, err := h.service.CreateSeat(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create seat")
		return
	}

	utils.ResponseCreated(w, "Seat created successfully", seat)
}

// UpdateSeatStatus handles PATCH /api/admin/seats/{id}/status
func (h *SeatHandler) UpdateSeatStatus(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid seat ID", nil)
		return
	}

	var req request.SeatStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	seat, err := h.service.UpdateSeatStatus(r.Context(), seatID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update seat status")
		return
	}

	utils.ResponseSuccess(w, "Seat status updated", seat)
}
