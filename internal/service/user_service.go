package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound = errors.New("user not found")
	// ErrTrainerNotConfigured means no account holds the trainer role
	// yet. The deployment assumes exactly one trainer; the role query
	// keeps that assumption explicit instead of hardcoding an email.
	ErrTrainerNotConfigured = errors.New("no trainer account configured")
)

type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetTrainer locates the single trainer of the deployment.
	GetTrainer(ctx context.Context) (*domain.User, error)
	ListTrainees(ctx context.Context) ([]domain.User, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if id == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return user, nil
}

func (s *userService) GetTrainer(ctx context.Context) (*domain.User, error) {
	trainer, err := s.userRepo.GetByRole(ctx, domain.RoleTrainer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotConfigured
		}
		return nil, wrapRepoErr(err)
	}
	return trainer, nil
}

func (s *userService) ListTrainees(ctx context.Context) ([]domain.User, error) {
	trainees, err := s.userRepo.ListByRole(ctx, domain.RoleTrainee)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return trainees, nil
}
