package http

import (
	"net/http"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/service"
)

type createReviewRequest struct {
	CarID     int32  `json:"car_id" validate:"required,gt=0"`
	BookingID int32  `json:"booking_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type reviewsResponse struct {
	CarID   int32           `json:"car_id"`
	Reviews []domain.Review `json:"reviews"`
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createReviewRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), service.CreateReviewInput{
		UserID:    userID,
		CarID:     req.CarID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) GetCarRating(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := h.reviews.GetCarRating(r.Context(), carID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (h *Handler) ListCarReviews(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.reviews.ListCarReviews(r.Context(), carID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviewsResponse{CarID: carID, Reviews: reviews})
}
