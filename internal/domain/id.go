package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for users and jobs.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well formed identifier.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
