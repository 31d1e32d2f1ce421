package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-finder/internal/domain"
	"job-finder/internal/repository"
)

// UserService is the user directory: it maps identity subjects to local users.
type UserService interface {
	// EnsureUser returns the local user for identity, creating it on first
	// sight. created reports whether a new record was written.
	EnsureUser(ctx context.Context, identity domain.Identity) (user *domain.User, created bool, err error)
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) EnsureUser(ctx context.Context, identity domain.Identity) (*domain.User, bool, error) {
	subject := strings.TrimSpace(identity.Subject)
	if subject == "" {
		return nil, false, &ValidationError{Message: "identity subject is required"}
	}

	existing, err := s.users.GetBySubject(ctx, subject)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user := &domain.User{
		Subject:        subject,
		Name:           identity.Name,
		Email:          identity.Email,
		ProfilePicture: identity.Picture,
		Role:           domain.RoleJobSeeker,
		Profession:     identity.Profession,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent login for the same subject won the insert
		if errors.Is(err, repository.ErrDuplicate) {
			existing, getErr := s.users.GetBySubject(ctx, subject)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func (s *userService) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("user id %q: %w", id, ErrInvalidID)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return user, nil
}
