package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/security"
	"carmarket-rental-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth         service.AuthService
	Cars         service.CarService
	Availability service.AvailabilityService
	Bookings     service.BookingService
	Reviews      service.ReviewService
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth         service.AuthService
	cars         service.CarService
	availability service.AvailabilityService
	bookings     service.BookingService
	reviews      service.ReviewService
	db           Pinger
	validate     *validator.Validate
}

// NewRouter builds the /api/v1 router. Route names double as keys of
// config.EndpointSecurityConfig.
func NewRouter(svcs Services, tokens security.TokenManager, db Pinger) *mux.Router {
	h := &Handler{
		auth:         svcs.Auth,
		cars:         svcs.Cars,
		availability: svcs.Availability,
		bookings:     svcs.Bookings,
		reviews:      svcs.Reviews,
		db:           db,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware, authMiddleware(tokens))
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet).Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("Login")

	cars := api.PathPrefix("/cars/{carId:[0-9]+}").Subrouter()
	cars.HandleFunc("/availability", h.GetAvailability).Methods(http.MethodGet).Name("GetAvailability")
	cars.HandleFunc("/availability", h.AddAvailability).Methods(http.MethodPost).Name("AddAvailability")
	cars.HandleFunc("/availability", h.SetAvailability).Methods(http.MethodPut).Name("SetAvailability")
	cars.HandleFunc("/availability", h.RemoveAvailability).Methods(http.MethodDelete).Name("RemoveAvailability")
	cars.HandleFunc("/availability/range", h.GetAvailableDatesInRange).Methods(http.MethodGet).Name("GetAvailableDatesInRange")
	cars.HandleFunc("/availability/check", h.IsAvailable).Methods(http.MethodGet).Name("IsAvailable")
	cars.HandleFunc("/bookings/check", h.CheckBookingAvailability).Methods(http.MethodGet).Name("CheckBookingAvailability")
	cars.HandleFunc("/rating", h.GetCarRating).Methods(http.MethodGet).Name("GetCarRating")
	cars.HandleFunc("/reviews", h.ListCarReviews).Methods(http.MethodGet).Name("ListCarReviews")

	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost).Name("CreateBooking")
	api.HandleFunc("/bookings/mine", h.GetClientBookings).Methods(http.MethodGet).Name("GetClientBookings")
	api.HandleFunc("/bookings/selling", h.GetSellerBookings).Methods(http.MethodGet).Name("GetSellerBookings")
	api.HandleFunc("/bookings/upcoming", h.GetUpcomingBookings).Methods(http.MethodGet).Name("GetUpcomingBookings")
	api.HandleFunc("/bookings/stats", h.GetSellerBookingStats).Methods(http.MethodGet).Name("GetSellerBookingStats")

	api.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet).Name("GetBooking")
	booking := api.PathPrefix("/bookings/{id:[0-9]+}").Subrouter()
	booking.HandleFunc("/status", h.UpdateBookingStatus).Methods(http.MethodPatch).Name("UpdateBookingStatus")
	booking.HandleFunc("/cancel", h.CancelBooking).Methods(http.MethodPost).Name("CancelBooking")
	booking.HandleFunc("/confirm", h.ConfirmBooking).Methods(http.MethodPost).Name("ConfirmBooking")
	booking.HandleFunc("/reject", h.RejectBooking).Methods(http.MethodPost).Name("RejectBooking")
	booking.HandleFunc("/complete", h.CompleteBooking).Methods(http.MethodPost).Name("CompleteBooking")
	booking.HandleFunc("/payment", h.UpdatePaymentStatus).Methods(http.MethodPatch).Name("UpdatePaymentStatus")
	booking.HandleFunc("/can-review", h.CanReviewBooking).Methods(http.MethodGet).Name("CanReviewBooking")

	api.HandleFunc("/reviews", h.CreateReview).Methods(http.MethodPost).Name("CreateReview")

	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst and runs its validate tags.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapValidation("invalid request body", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return domain.WrapValidation("invalid request", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s", name)
	}
	return int32(id), nil
}

func queryDate(r *http.Request, name string) (calendar.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.NewValidationError("%s is required", name)
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		return 0, domain.WrapValidation("invalid "+name, err)
	}
	return d, nil
}

func queryDates(r *http.Request) (calendar.Date, calendar.Date, error) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		return 0, 0, err
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("invalid %s", name)
	}
	return n, nil
}

func queryStatus(r *http.Request) *domain.BookingStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := domain.BookingStatus(raw)
	return &status
}
