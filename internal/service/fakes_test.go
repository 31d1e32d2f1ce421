package service_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"job-finder/internal/domain"
	"job-finder/internal/repository"
)

type memoryStore struct {
	mu    sync.Mutex
	clock time.Time
	users map[string]domain.User
	jobs  map[string]domain.Job

	creates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[string]domain.User{},
		jobs:  map[string]domain.Job{},
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memoryUsers struct{ *memoryStore }

type memoryJobs struct{ *memoryStore }

func (m memoryUsers) Init(context.Context) error { return nil }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Subject == user.Subject {
			return fmt.Errorf("user %s: %w", user.Subject, repository.ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	return &u, nil
}

func (m memoryUsers) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Subject == subject {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (m memoryUsers) Summaries(_ context.Context, ids []string) (map[string]domain.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.UserSummary{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (m memoryJobs) Init(context.Context) error { return nil }

func (m memoryJobs) Create(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.ID == "" {
		job.ID = domain.NewID()
	}
	job.CreatedAt = m.tick()
	job.UpdatedAt = job.CreatedAt
	m.jobs[job.ID] = cloneJob(*job)
	m.creates++
	return nil
}

func (m memoryJobs) Get(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job: %w", repository.ErrNotFound)
	}
	j = cloneJob(j)
	return &j, nil
}

func (m memoryJobs) List(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Job{}
	for _, j := range m.jobs {
		if filter.Matches(&j) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (m memoryJobs) mutate(id string, fn func(*domain.Job)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, repository.ErrNotFound)
	}
	fn(&j)
	j.UpdatedAt = m.tick()
	m.jobs[id] = j
	return nil
}

func (m memoryJobs) AddApplicant(_ context.Context, jobID, userID string) error {
	return m.mutate(jobID, func(j *domain.Job) {
		if !slices.Contains(j.Applicants, userID) {
			j.Applicants = append(j.Applicants, userID)
		}
	})
}

func (m memoryJobs) AddLike(_ context.Context, jobID, userID string) error {
	return m.mutate(jobID, func(j *domain.Job) {
		if !slices.Contains(j.Likes, userID) {
			j.Likes = append(j.Likes, userID)
		}
	})
}

func (m memoryJobs) RemoveLike(_ context.Context, jobID, userID string) error {
	return m.mutate(jobID, func(j *domain.Job) {
		j.Likes = slices.DeleteFunc(j.Likes, func(id string) bool { return id == userID })
	})
}

func (m memoryJobs) SetLogo(_ context.Context, jobID, key string) error {
	return m.mutate(jobID, func(j *domain.Job) { j.LogoKey = key })
}

func (m memoryJobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id, repository.ErrNotFound)
	}
	delete(m.jobs, id)
	return nil
}

func cloneJob(j domain.Job) domain.Job {
	j.Tags = slices.Clone(j.Tags)
	j.Skills = slices.Clone(j.Skills)
	j.Applicants = slices.Clone(j.Applicants)
	j.Likes = slices.Clone(j.Likes)
	return j
}
