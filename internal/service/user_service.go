package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"campus-coffee/internal/domain"
	"campus-coffee/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLoginName(ctx context.Context, loginName string) (*domain.User, error)
	// Upsert creates the user when it has no id and updates the stored user otherwise.
	Upsert(ctx context.Context, user domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:  users,
		logger: logger,
	}
}

func (s *userService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	loginName = strings.TrimSpace(loginName)
	if loginName == "" {
		return nil, fmt.Errorf("login name is required: %w", domain.ErrInvalidInput)
	}
	return s.users.GetByLoginName(ctx, loginName)
}

func (s *userService) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	user.LoginName = strings.TrimSpace(user.LoginName)
	user.EmailAddress = strings.TrimSpace(user.EmailAddress)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if user.IsNew() {
		// timestamps are owned by the store
		user.CreatedAt = nil
		user.UpdatedAt = nil
		if _, err := s.users.Create(ctx, &user); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{"user_id": *user.ID, "login_name": user.LoginName}).Info("user created")
		return &user, nil
	}

	existing, err := s.users.GetByID(ctx, *user.ID)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = existing.CreatedAt
	if err := s.users.Update(ctx, &user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": *user.ID, "login_name": user.LoginName}).Info("user updated")
	return s.users.GetByID(ctx, *user.ID)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func validateUser(user domain.User) error {
	switch {
	case user.LoginName == "":
		return fmt.Errorf("login name is required: %w", domain.ErrInvalidInput)
	case user.EmailAddress == "":
		return fmt.Errorf("email address is required: %w", domain.ErrInvalidInput)
	case user.FirstName == "":
		return fmt.Errorf("first name is required: %w", domain.ErrInvalidInput)
	case user.LastName == "":
		return fmt.Errorf("last name is required: %w", domain.ErrInvalidInput)
	}
	return nil
}
