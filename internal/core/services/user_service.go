package services

import (
	"context"
	"errors"
	"strings"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ErrInvalidKYCStatus is returned for an unknown KYC status value
var ErrInvalidKYCStatus = errors.New("invalid kyc status")

// UserService handles user profile operations
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateProfile updates a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" && phone != user.Phone {
		taken, err := s.userRepo.ExistsByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneTaken
		}
		user.Phone = phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	return user, nil
}

// List lists users with pagination
func (s *UserService) List(ctx context.Context, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return responses, total, nil
}

// Delete soft-deletes a user account
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// SetKYCStatus updates a user's KYC verification status
func (s *UserService) SetKYCStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	switch status {
	case domain.KYCPending, domain.KYCVerified, domain.KYCRejected:
	default:
		return nil, ErrInvalidKYCStatus
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.KYCStatus = status
	user.IsVerified = status == domain.KYCVerified

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
