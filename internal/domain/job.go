package domain

import (
	"slices"
	"time"
)

type SalaryType string

const (
	SalaryYear  SalaryType = "Year"
	SalaryMonth SalaryType = "Month"
	SalaryWeek  SalaryType = "Week"
	SalaryHour  SalaryType = "Hour"
)

func (s SalaryType) Valid() bool {
	switch s {
	case SalaryYear, SalaryMonth, SalaryWeek, SalaryHour:
		return true
	}
	return false
}

type JobType string

const (
	JobTypeFullTime   JobType = "Full Time"
	JobTypePartTime   JobType = "Part Time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeTemporary  JobType = "Temporary"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeTemporary:
		return true
	}
	return false
}

// Job represents a single job posting.
type Job struct {
	ID          string
	Title       string
	Location    string
	Salary      float64
	SalaryType  SalaryType
	Negotiable  bool
	JobType     JobType
	Description string
	Tags        []string
	Skills      []string
	CreatedBy   string
	Applicants  []string
	Likes       []string
	LogoKey     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated on read, never persisted.
	Owner             *UserSummary
	ApplicantProfiles []UserSummary
}

func (j *Job) HasApplicant(userID string) bool {
	return slices.Contains(j.Applicants, userID)
}

func (j *Job) IsLikedBy(userID string) bool {
	return slices.Contains(j.Likes, userID)
}

// JobFilter narrows a job listing. Zero fields impose no constraint.
type JobFilter struct {
	Tags     []string
	Location string
	Title    string
	OwnerID  string
}

// Matches reports whether job satisfies every non-empty field of f.
// Repositories without native query support use it directly.
func (f JobFilter) Matches(job *Job) bool {
	if f.OwnerID != "" && job.CreatedBy != f.OwnerID {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(tag string) bool {
		return slices.Contains(job.Tags, tag)
	}) {
		return false
	}
	if f.Location != "" && !containsFold(job.Location, f.Location) {
		return false
	}
	if f.Title != "" && !containsFold(job.Title, f.Title) {
		return false
	}
	return true
}
