package services

import (
	"errors"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name    *string
	Address *string
}

type UserService interface {
	GetByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Internal("failed to update user", err)
	}
	return user, nil
}
