package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// UserService is a thin layer over the user directory; the partial-update
// merge is its only logic.
type UserService struct {
	users  domain.UserRepository
	logger *zerolog.Logger
}

var _ domain.UserService = (*UserService)(nil)

func NewUserService(users domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// UpdateUser merges the patch over the stored row: empty fields keep the
// current values.
func (s *UserService) UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	current, err := s.users.GetUserByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		current.Name = patch.Name
	}
	if patch.Email != "" {
		current.Email = patch.Email
	}

	if err := s.users.UpdateUser(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.DeleteUser(ctx, id)
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.users.GetUsers(ctx)
}
