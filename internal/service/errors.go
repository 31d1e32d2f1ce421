package service

import (
	"errors"
	"strings"

	"job-finder/internal/repository"
)

var (
	// ErrJobNotFound indicates the referenced job does not exist.
	ErrJobNotFound = errors.New("job not found")
	// ErrUserNotFound indicates the referenced or acting user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyApplied is returned when the acting user is already an applicant.
	ErrAlreadyApplied = errors.New("already applied for this job")
	// ErrInvalidID indicates a malformed job or user identifier.
	ErrInvalidID = errors.New("invalid id format")
	// ErrNotOwner is returned when a user modifies a job they did not post.
	ErrNotOwner = errors.New("job belongs to another user")
)

// ValidationError reports request input that failed validation.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func translateNotFound(err, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}
