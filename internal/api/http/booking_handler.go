package http

import (
	"context"
	"net/http"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/service"
)

type createBookingRequest struct {
	CarID         int32                 `json:"car_id" validate:"required,gt=0"`
	StartDate     *calendar.Date        `json:"start_date" validate:"required"`
	EndDate       *calendar.Date        `json:"end_date" validate:"required"`
	PaymentMethod *domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=CASH CARD BANK_TRANSFER"`
}

type updateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

type updatePaymentRequest struct {
	PaymentStatus domain.PaymentStatus  `json:"payment_status" validate:"required,oneof=PENDING PAID REFUNDED FAILED"`
	PaymentMethod *domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=CASH CARD BANK_TRANSFER"`
}

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

type canReviewResponse struct {
	CanReview bool `json:"can_review"`
}

func writeBookings(w http.ResponseWriter, bookings []domain.Booking) {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Bookings: bookings})
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createBookingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), service.CreateBookingInput{
		CarID:         req.CarID,
		ClientID:      userID,
		StartDate:     *req.StartDate,
		EndDate:       *req.EndDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) CheckBookingAvailability(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, end, err := queryDates(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	exclude, err := queryInt(r, "exclude_booking_id", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.bookings.CheckBookingAvailability(r.Context(), carID, start, end, int32(exclude))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availableResponse{Available: ok})
}

func (h *Handler) GetClientBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.GetClientBookings(r.Context(), userID, queryStatus(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *Handler) GetSellerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.GetSellerBookings(r.Context(), userID, queryStatus(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *Handler) GetUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.GetUpcomingBookings(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *Handler) GetSellerBookingStats(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.bookings.GetSellerBookingStats(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.GetBookingForUser(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.transition(w, r, func(ctx context.Context, bookingID, userID int32) (*domain.Booking, error) {
		return h.bookings.UpdateBookingStatus(ctx, service.UpdateStatusInput{
			BookingID: bookingID,
			Status:    req.Status,
			UpdatedBy: userID,
		})
	})
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.CancelBooking)
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.ConfirmBooking)
}

func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.RejectBooking)
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.CompleteBooking)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, bookingID, userID int32) (*domain.Booking, error)) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := op(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// UpdatePaymentStatus is restricted to the seller of the booked car.
func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updatePaymentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	current, err := h.bookings.GetBookingForUser(ctx, userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if current.Car.SellerID != userID {
		writeError(w, r, domain.ErrNotCarSeller)
		return
	}

	booking, err := h.bookings.UpdatePaymentStatus(ctx, id, req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) CanReviewBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.reviews.CanReviewBooking(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, canReviewResponse{CanReview: ok})
}
