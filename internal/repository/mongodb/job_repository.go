package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"job-finder/internal/domain"
	"job-finder/internal/repository"
)

type jobDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Location    string    `bson:"location"`
	Salary      float64   `bson:"salary"`
	SalaryType  string    `bson:"salaryType"`
	Negotiable  bool      `bson:"negotiable"`
	JobType     string    `bson:"jobType"`
	Description string    `bson:"description"`
	Tags        []string  `bson:"tags"`
	Skills      []string  `bson:"skills"`
	CreatedBy   string    `bson:"createdBy"`
	Applicants  []string  `bson:"applicants"`
	Likes       []string  `bson:"likes"`
	LogoKey     string    `bson:"logoKey,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type JobRepository struct {
	jobs *mongo.Collection
}

func NewJobRepository(db *mongo.Database) repository.JobRepository {
	return &JobRepository{jobs: db.Collection(jobsCollection)}
}

func (r *JobRepository) Init(ctx context.Context) error {
	_, err := r.jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create jobs indexes: %w", err)
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

	if _, err := r.jobs.InsertOne(ctx, toJobDocument(job)); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	var doc jobDocument
	if err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("job: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	cur, err := r.jobs.Find(ctx,
		buildFilter(filter),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []domain.Job{}
	for cur.Next(ctx) {
		var doc jobDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// buildFilter translates a JobFilter into a query document. Substring
// filters are quoted so user input never acts as a pattern.
func buildFilter(filter domain.JobFilter) bson.M {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["createdBy"] = filter.OwnerID
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if filter.Title != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}
	return query
}

func (r *JobRepository) AddApplicant(ctx context.Context, jobID, userID string) error {
	return r.update(ctx, jobID, bson.M{"$addToSet": bson.M{"applicants": userID}})
}

func (r *JobRepository) AddLike(ctx context.Context, jobID, userID string) error {
	return r.update(ctx, jobID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *JobRepository) RemoveLike(ctx context.Context, jobID, userID string) error {
	return r.update(ctx, jobID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *JobRepository) SetLogo(ctx context.Context, jobID, key string) error {
	return r.update(ctx, jobID, bson.M{"$set": bson.M{"logoKey": key}})
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.jobs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("job %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *JobRepository) update(ctx context.Context, jobID string, change bson.M) error {
	now := time.Now().UTC()
	if set, ok := change["$set"].(bson.M); ok {
		set["updatedAt"] = now
	} else {
		change["$set"] = bson.M{"updatedAt": now}
	}

	res, err := r.jobs.UpdateOne(ctx, bson.M{"_id": jobID}, change)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("job %s: %w", jobID, repository.ErrNotFound)
	}
	return nil
}

func toJobDocument(job *domain.Job) jobDocument {
	return jobDocument{
		ID:          job.ID,
		Title:       job.Title,
		Location:    job.Location,
		Salary:      job.Salary,
		SalaryType:  string(job.SalaryType),
		Negotiable:  job.Negotiable,
		JobType:     string(job.JobType),
		Description: job.Description,
		Tags:        nonNil(job.Tags),
		Skills:      nonNil(job.Skills),
		CreatedBy:   job.CreatedBy,
		Applicants:  nonNil(job.Applicants),
		Likes:       nonNil(job.Likes),
		LogoKey:     job.LogoKey,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func (d jobDocument) toDomain() *domain.Job {
	return &domain.Job{
		ID:          d.ID,
		Title:       d.Title,
		Location:    d.Location,
		Salary:      d.Salary,
		SalaryType:  domain.SalaryType(d.SalaryType),
		Negotiable:  d.Negotiable,
		JobType:     domain.JobType(d.JobType),
		Description: d.Description,
		Tags:        nonNil(d.Tags),
		Skills:      nonNil(d.Skills),
		CreatedBy:   d.CreatedBy,
		Applicants:  nonNil(d.Applicants),
		Likes:       nonNil(d.Likes),
		LogoKey:     d.LogoKey,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// empty arrays rather than null keep $addToSet and $pull valid
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
