package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"job-finder/internal/domain"
	"job-finder/internal/repository"
)

// CreateJobInput carries the caller supplied fields of a new posting.
type CreateJobInput struct {
	Title       string
	Location    string
	Salary      float64
	SalaryType  domain.SalaryType
	Negotiable  bool
	JobType     domain.JobType
	Description string
	Tags        []string
	Skills      []string
}

// Validate checks required fields and enumerations before anything is persisted.
func (in CreateJobInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if in.Salary <= 0 {
		missing = append(missing, "salary")
	}
	if in.SalaryType == "" {
		missing = append(missing, "salaryType")
	}
	if in.JobType == "" {
		missing = append(missing, "jobType")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Please fill all the required fields"}
	}

	var invalid []string
	if !in.SalaryType.Valid() {
		invalid = append(invalid, "salaryType")
	}
	if !in.JobType.Valid() {
		invalid = append(invalid, "jobType")
	}
	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid, Message: "Invalid value"}
	}
	return nil
}

// JobService covers the job lifecycle, search and engagement operations.
type JobService interface {
	CreateJob(ctx context.Context, subject string, in CreateJobInput) (*domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context) ([]domain.Job, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Job, error)
	Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	Apply(ctx context.Context, jobID, subject string) (*domain.Job, error)
	// ToggleLike flips the acting user's like and reports whether the job
	// is liked afterwards.
	ToggleLike(ctx context.Context, jobID, subject string) (*domain.Job, bool, error)
	DeleteJob(ctx context.Context, jobID, subject string) (*domain.Job, error)
	SetLogo(ctx context.Context, jobID, subject, key string) (*domain.Job, error)
}

type jobService struct {
	jobs  repository.JobRepository
	users repository.UserRepository
}

func NewJobService(jobs repository.JobRepository, users repository.UserRepository) JobService {
	return &jobService{
		jobs:  jobs,
		users: users,
	}
}

func (s *jobService) CreateJob(ctx context.Context, subject string, in CreateJobInput) (*domain.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.actingUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Title:       strings.TrimSpace(in.Title),
		Location:    strings.TrimSpace(in.Location),
		Salary:      in.Salary,
		SalaryType:  in.SalaryType,
		Negotiable:  in.Negotiable,
		JobType:     in.JobType,
		Description: strings.TrimSpace(in.Description),
		Tags:        cleanList(in.Tags),
		Skills:      cleanList(in.Skills),
		CreatedBy:   user.ID,
		Applicants:  []string{},
		Likes:       []string{},
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles, err := s.users.Summaries(ctx, job.Applicants)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}
	job.ApplicantProfiles = make([]domain.UserSummary, 0, len(job.Applicants))
	for _, id := range job.Applicants {
		if p, ok := profiles[id]; ok {
			job.ApplicantProfiles = append(job.ApplicantProfiles, p)
		}
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return s.list(ctx, domain.JobFilter{})
}

func (s *jobService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Job, error) {
	if !domain.ValidID(ownerID) {
		return nil, fmt.Errorf("user id %q: %w", ownerID, ErrInvalidID)
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return s.list(ctx, domain.JobFilter{OwnerID: ownerID})
}

func (s *jobService) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	filter.OwnerID = ""
	return s.list(ctx, filter)
}

func (s *jobService) Apply(ctx context.Context, jobID, subject string) (*domain.Job, error) {
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	user, err := s.actingUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	if job.HasApplicant(user.ID) {
		return nil, ErrAlreadyApplied
	}
	if err := s.jobs.AddApplicant(ctx, job.ID, user.ID); err != nil {
		return nil, translateNotFound(err, ErrJobNotFound)
	}
	job.Applicants = append(job.Applicants, user.ID)
	return job, nil
}

func (s *jobService) ToggleLike(ctx context.Context, jobID, subject string) (*domain.Job, bool, error) {
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, false, err
	}
	user, err := s.actingUser(ctx, subject)
	if err != nil {
		return nil, false, err
	}

	if job.IsLikedBy(user.ID) {
		if err := s.jobs.RemoveLike(ctx, job.ID, user.ID); err != nil {
			return nil, false, translateNotFound(err, ErrJobNotFound)
		}
		job.Likes = slices.DeleteFunc(job.Likes, func(id string) bool { return id == user.ID })
		return job, false, nil
	}

	if err := s.jobs.AddLike(ctx, job.ID, user.ID); err != nil {
		return nil, false, translateNotFound(err, ErrJobNotFound)
	}
	job.Likes = append(job.Likes, user.ID)
	return job, true, nil
}

func (s *jobService) DeleteJob(ctx context.Context, jobID, subject string) (*domain.Job, error) {
	if !domain.ValidID(jobID) {
		return nil, fmt.Errorf("job id %q: %w", jobID, ErrInvalidID)
	}
	// TODO: reject callers other than job.CreatedBy once the product owner
	// confirms deletion is meant to be owner-only.
	if _, err := s.actingUser(ctx, subject); err != nil {
		return nil, err
	}
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		return nil, translateNotFound(err, ErrJobNotFound)
	}
	return job, nil
}

func (s *jobService) SetLogo(ctx context.Context, jobID, subject, key string) (*domain.Job, error) {
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	user, err := s.actingUser(ctx, subject)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy != user.ID {
		return nil, ErrNotOwner
	}
	if err := s.jobs.SetLogo(ctx, job.ID, key); err != nil {
		return nil, translateNotFound(err, ErrJobNotFound)
	}
	job.LogoKey = key
	return job, nil
}

func (s *jobService) list(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if err := s.populateOwners(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *jobService) populateOwners(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(jobs))
	for i := range jobs {
		if !slices.Contains(ids, jobs[i].CreatedBy) {
			ids = append(ids, jobs[i].CreatedBy)
		}
	}
	owners, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("load job owners: %w", err)
	}
	for i := range jobs {
		if owner, ok := owners[jobs[i].CreatedBy]; ok {
			jobs[i].Owner = &owner
		}
	}
	return nil
}

func (s *jobService) findJob(ctx context.Context, id string) (*domain.Job, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("job id %q: %w", id, ErrInvalidID)
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, ErrJobNotFound)
	}
	return job, nil
}

func (s *jobService) actingUser(ctx context.Context, subject string) (*domain.User, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

// ParseTags splits a comma separated tag list, dropping blank entries.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return cleanList(strings.Split(raw, ","))
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
