package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"
)

const maxCommentLength = 2000

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookingRepo repository.BookingRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	logger.EnterMethod("reviewService.CreateReview", "userID", in.UserID, "bookingID", in.BookingID, "rating", in.Rating)

	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		err := domain.NewValidationError("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
		logger.ExitMethodWithError("reviewService.CreateReview", err)
		return nil, err
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > maxCommentLength {
		err := domain.NewValidationError("comment must be at most %d characters", maxCommentLength)
		logger.ExitMethodWithError("reviewService.CreateReview", err)
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "bookingID", in.BookingID)
		return nil, err
	}
	if err := domain.CheckReviewEligibility(b, in.UserID, in.CarID); err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "bookingID", in.BookingID)
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForBooking(ctx, in.BookingID)
	if err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "bookingID", in.BookingID)
		return nil, err
	}
	if exists {
		logger.ExitMethodWithError("reviewService.CreateReview", domain.ErrReviewExists, "bookingID", in.BookingID)
		return nil, domain.ErrReviewExists
	}

	review := &domain.Review{
		UserID:    in.UserID,
		CarID:     in.CarID,
		BookingID: in.BookingID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "bookingID", in.BookingID)
		return nil, err
	}

	logger.ExitMethod("reviewService.CreateReview", "reviewID", review.ID)
	return review, nil
}

// CanReviewBooking reports whether userID may review the booking now. A
// missing booking is an error; every other refusal is false.
func (s *reviewService) CanReviewBooking(ctx context.Context, userID, bookingID int32) (bool, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if err := domain.CheckReviewEligibility(b, userID, b.CarID); err != nil {
		var dErr *domain.Error
		if errors.As(err, &dErr) {
			return false, nil
		}
		return false, err
	}
	exists, err := s.reviewRepo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// GetCarRating returns the mean rating rounded to one decimal, or zeros when
// the car has no reviews.
func (s *reviewService) GetCarRating(ctx context.Context, carID int32) (*domain.CarRating, error) {
	rating, err := s.reviewRepo.RatingForCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if rating.TotalReviews == 0 {
		return &domain.CarRating{}, nil
	}
	rating.AverageRating = math.Round(rating.AverageRating*10) / 10
	return rating, nil
}

func (s *reviewService) ListCarReviews(ctx context.Context, carID int32) ([]domain.Review, error) {
	return s.reviewRepo.ListByCar(ctx, carID)
}
