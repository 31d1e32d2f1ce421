package repository

import (
	"context"
	"errors"

	"job-finder/internal/domain"
)

var (
	// ErrNotFound is returned (possibly wrapped) when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
)

// JobRepository exposes persistence operations for Job postings.
type JobRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
	// List returns the jobs matching filter, newest first.
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	AddApplicant(ctx context.Context, jobID, userID string) error
	AddLike(ctx context.Context, jobID, userID string) error
	RemoveLike(ctx context.Context, jobID, userID string) error
	SetLogo(ctx context.Context, jobID, key string) error
	Delete(ctx context.Context, id string) error
}
