package service

import (
	"context"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/repository"
)

type carService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) CarService {
	return &carService{carRepo: carRepo}
}

func (s *carService) GetCar(ctx context.Context, carID int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, carID)
}

func (s *carService) VerifySeller(ctx context.Context, carID, userID int32) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.SellerID != userID {
		return nil, domain.ErrNotCarSeller
	}
	return car, nil
}
