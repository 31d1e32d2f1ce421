package domain

import "time"

type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleRecruiter Role = "recruiter"
)

// User is the local record of an identity provider subject.
type User struct {
	ID             string
	Subject        string
	Name           string
	Email          string
	ProfilePicture string
	Role           Role
	Profession     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserSummary is the sparse view of a user attached to jobs.
type UserSummary struct {
	ID             string
	Name           string
	ProfilePicture string
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}

// Identity is what the identity provider asserts about a logged in subject.
type Identity struct {
	Subject    string
	Name       string
	Email      string
	Picture    string
	Profession string
}
