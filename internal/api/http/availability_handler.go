package http

import (
	"context"
	"net/http"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
)

type periodRequest struct {
	StartDate *calendar.Date `json:"start_date" validate:"required"`
	EndDate   *calendar.Date `json:"end_date" validate:"required"`
}

type periodsRequest struct {
	Periods []periodRequest `json:"periods" validate:"dive"`
}

func (p periodsRequest) ranges() []calendar.Range {
	out := make([]calendar.Range, len(p.Periods))
	for i, period := range p.Periods {
		out[i] = calendar.Range{Start: *period.StartDate, End: *period.EndDate}
	}
	return out
}

type availabilityResponse struct {
	CarID   int32                       `json:"car_id"`
	Periods []domain.AvailabilityPeriod `json:"periods"`
}

type rangesResponse struct {
	CarID  int32            `json:"car_id"`
	Ranges []calendar.Range `json:"ranges"`
}

type availableResponse struct {
	Available bool `json:"available"`
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeAvailability(w, r, carID)
}

func (h *Handler) writeAvailability(w http.ResponseWriter, r *http.Request, carID int32) {
	periods, err := h.availability.GetAvailability(r.Context(), carID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if periods == nil {
		periods = []domain.AvailabilityPeriod{}
	}
	writeJSON(w, http.StatusOK, availabilityResponse{CarID: carID, Periods: periods})
}

func (h *Handler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	h.mutateAvailability(w, r, h.availability.AddAvailability)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	h.mutateAvailability(w, r, h.availability.SetAvailability)
}

func (h *Handler) RemoveAvailability(w http.ResponseWriter, r *http.Request) {
	h.mutateAvailability(w, r, h.availability.RemoveAvailability)
}

// mutateAvailability checks that the caller sells the car, applies op and
// answers with the car's stored periods.
func (h *Handler) mutateAvailability(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, carID int32, periods []calendar.Range) error) {
	ctx := r.Context()
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.cars.VerifySeller(ctx, carID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	var req periodsRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := op(ctx, carID, req.ranges()); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeAvailability(w, r, carID)
}

func (h *Handler) GetAvailableDatesInRange(w http.ResponseWriter, r *http.Request) {
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

	ranges, err := h.availability.GetAvailableDatesInRange(r.Context(), carID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ranges == nil {
		ranges = []calendar.Range{}
	}
	writeJSON(w, http.StatusOK, rangesResponse{CarID: carID, Ranges: ranges})
}

func (h *Handler) IsAvailable(w http.ResponseWriter, r *http.Request) {
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

	ok, err := h.availability.IsAvailable(r.Context(), carID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availableResponse{Available: ok})
}
