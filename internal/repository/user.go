package repository

import (
	"context"

	"job-finder/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	// Summaries returns the sparse views of the given users keyed by ID.
	// Unknown IDs are absent from the result.
	Summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
}
