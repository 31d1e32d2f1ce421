package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-finder/internal/domain"
	"job-finder/internal/repository"
)

const createJobsTables = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	location TEXT NOT NULL,
	salary REAL NOT NULL,
	salary_type TEXT NOT NULL,
	negotiable INTEGER NOT NULL DEFAULT 0,
	job_type TEXT NOT NULL,
	description TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	skills TEXT NOT NULL DEFAULT '[]',
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(created_by) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_by ON jobs(created_by);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);

CREATE TABLE IF NOT EXISTS job_applicants (
	job_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY(job_id, user_id),
	FOREIGN KEY(job_id) REFERENCES jobs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS job_likes (
	job_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY(job_id, user_id),
	FOREIGN KEY(job_id) REFERENCES jobs(id) ON DELETE CASCADE
);
`

const selectJobColumns = `
SELECT id, title, location, salary, salary_type, negotiable, job_type, description, tags, skills, created_by, logo_key, created_at, updated_at
FROM jobs`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJobsTables); err != nil {
		return fmt.Errorf("create jobs tables: %w", err)
	}
	if err := r.ensureJobColumns(ctx); err != nil {
		return err
	}
	return nil
}

// ensureJobColumns upgrades databases created before a column existed.
func (r *JobRepository) ensureJobColumns(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `PRAGMA table_info(jobs)`)
	if err != nil {
		return fmt.Errorf("describe jobs table: %w", err)
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan pragma table info: %w", err)
		}
		columns[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate pragma table info: %w", err)
	}
	rows.Close()

	if _, exists := columns["logo_key"]; !exists {
		if _, err := r.db.ExecContext(ctx, `ALTER TABLE jobs ADD COLUMN logo_key TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add column logo_key: %w", err)
		}
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = domain.NewID()
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	tags, err := encodeStrings(job.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	skills, err := encodeStrings(job.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO jobs (id, title, location, salary, salary_type, negotiable, job_type, description, tags, skills, created_by, logo_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Title,
		job.Location,
		job.Salary,
		string(job.SalaryType),
		job.Negotiable,
		string(job.JobType),
		job.Description,
		tags,
		skills,
		job.CreatedBy,
		job.LogoKey,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, selectJobColumns+` WHERE id=?`, id)
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var (
		where []string
		args  []any
	)
	if filter.OwnerID != "" {
		where = append(where, `created_by = ?`)
		args = append(args, filter.OwnerID)
	}
	if len(filter.Tags) > 0 {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(jobs.tags) WHERE json_each.value IN (`+placeholders(len(filter.Tags))+`))`)
		for _, tag := range filter.Tags {
			args = append(args, tag)
		}
	}
	if filter.Location != "" {
		where = append(where, `instr(fold(location), fold(?)) > 0`)
		args = append(args, filter.Location)
	}
	if filter.Title != "" {
		where = append(where, `instr(fold(title), fold(?)) > 0`)
		args = append(args, filter.Title)
	}

	query := selectJobColumns
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	rows.Close()

	for i := range jobs {
		if err := r.loadMembers(ctx, &jobs[i]); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (r *JobRepository) AddApplicant(ctx context.Context, jobID, userID string) error {
	return r.addMember(ctx, "job_applicants", jobID, userID)
}

func (r *JobRepository) AddLike(ctx context.Context, jobID, userID string) error {
	return r.addMember(ctx, "job_likes", jobID, userID)
}

func (r *JobRepository) RemoveLike(ctx context.Context, jobID, userID string) error {
	if err := r.exists(ctx, jobID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM job_likes WHERE job_id=? AND user_id=?`, jobID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return r.touch(ctx, jobID)
}

func (r *JobRepository) SetLogo(ctx context.Context, jobID, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET logo_key=?, updated_at=? WHERE id=?`, key, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("update job logo: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job logo rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("job %s: %w", jobID, repository.ErrNotFound)
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_applicants WHERE job_id=?`, id); err != nil {
		return fmt.Errorf("delete job applicants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM job_likes WHERE job_id=?`, id); err != nil {
		return fmt.Errorf("delete job likes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("job %s: %w", id, repository.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit job delete: %w", err)
	}
	return nil
}

func (r *JobRepository) addMember(ctx context.Context, table, jobID, userID string) error {
	if err := r.exists(ctx, jobID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (job_id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT(job_id, user_id) DO NOTHING`,
		jobID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return r.touch(ctx, jobID)
}

func (r *JobRepository) exists(ctx context.Context, jobID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id=?`, jobID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("job %s: %w", jobID, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup job: %w", err)
	}
	return nil
}

func (r *JobRepository) touch(ctx context.Context, jobID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE jobs SET updated_at=? WHERE id=?`, time.Now().UTC(), jobID); err != nil {
		return fmt.Errorf("touch job: %w", err)
	}
	return nil
}

// loadMembers fills applicants and likes in insertion order.
func (r *JobRepository) loadMembers(ctx context.Context, job *domain.Job) error {
	applicants, err := r.members(ctx, "job_applicants", job.ID)
	if err != nil {
		return err
	}
	likes, err := r.members(ctx, "job_likes", job.ID)
	if err != nil {
		return err
	}
	job.Applicants = applicants
	job.Likes = likes
	return nil
}

func (r *JobRepository) members(ctx context.Context, table, jobID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM `+table+` WHERE job_id=? ORDER BY rowid ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanJob(scanner interface {
	Scan(dest ...any) error
}) (*domain.Job, error) {
	var (
		job        domain.Job
		salaryType string
		jobType    string
		tags       string
		skills     string
	)

	if err := scanner.Scan(
		&job.ID,
		&job.Title,
		&job.Location,
		&job.Salary,
		&salaryType,
		&job.Negotiable,
		&jobType,
		&job.Description,
		&tags,
		&skills,
		&job.CreatedBy,
		&job.LogoKey,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	job.SalaryType = domain.SalaryType(salaryType)
	job.JobType = domain.JobType(jobType)
	if err := json.Unmarshal([]byte(tags), &job.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &job.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return &job, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
