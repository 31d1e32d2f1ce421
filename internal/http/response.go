package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"job-finder/internal/domain"
	"job-finder/internal/service"
)

type UserSummaryResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

type UserResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	ProfilePicture string      `json:"profilePicture"`
	Role           domain.Role `json:"role"`
	Profession     string      `json:"profession"`
	CreatedAt      string      `json:"createdAt"`
}

type JobResponse struct {
	ID                string                `json:"id"`
	Title             string                `json:"title"`
	Location          string                `json:"location"`
	Salary            float64               `json:"salary"`
	SalaryType        domain.SalaryType     `json:"salaryType"`
	Negotiable        bool                  `json:"negotiable"`
	JobType           domain.JobType        `json:"jobType"`
	Description       string                `json:"description"`
	Tags              []string              `json:"tags"`
	Skills            []string              `json:"skills"`
	CreatedBy         string                `json:"createdBy"`
	Owner             *UserSummaryResponse  `json:"owner,omitempty"`
	Applicants        []string              `json:"applicants"`
	ApplicantProfiles []UserSummaryResponse `json:"applicantProfiles,omitempty"`
	Likes             []string              `json:"likes"`
	LogoURL           string                `json:"logoUrl,omitempty"`
	CreatedAt         string                `json:"createdAt"`
	UpdatedAt         string                `json:"updatedAt"`
}

func (h *Handler) jobToResponse(ctx context.Context, job domain.Job) JobResponse {
	resp := JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Location:    job.Location,
		Salary:      job.Salary,
		SalaryType:  job.SalaryType,
		Negotiable:  job.Negotiable,
		JobType:     job.JobType,
		Description: job.Description,
		Tags:        orEmpty(job.Tags),
		Skills:      orEmpty(job.Skills),
		CreatedBy:   job.CreatedBy,
		Applicants:  orEmpty(job.Applicants),
		Likes:       orEmpty(job.Likes),
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.Format(time.RFC3339),
	}
	if job.Owner != nil {
		owner := summaryToResponse(*job.Owner)
		resp.Owner = &owner
	}
	if job.ApplicantProfiles != nil {
		resp.ApplicantProfiles = make([]UserSummaryResponse, len(job.ApplicantProfiles))
		for i := range job.ApplicantProfiles {
			resp.ApplicantProfiles[i] = summaryToResponse(job.ApplicantProfiles[i])
		}
	}
	if job.LogoKey != "" && h.logos != nil {
		url, err := h.logos.GetObjectURL(ctx, h.bucket, job.LogoKey, h.logoURLExpiry)
		if err != nil {
			h.logger.WithError(err).WithField("job", job.ID).Warn("presign logo url")
		} else {
			resp.LogoURL = url
		}
	}
	return resp
}

func (h *Handler) jobsToResponse(ctx context.Context, jobs []domain.Job) []JobResponse {
	resp := make([]JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = h.jobToResponse(ctx, jobs[i])
	}
	return resp
}

func summaryToResponse(s domain.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{
		ID:             s.ID,
		Name:           s.Name,
		ProfilePicture: s.ProfilePicture,
	}
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		Profession:     u.Profession,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// writeError maps service errors onto statuses. Unexpected errors are
// logged under op and answered without detail.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id format"})
	case errors.Is(err, service.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrAlreadyApplied):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already applied for this job"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the job owner can do that"})
	default:
		h.logger.WithError(err).WithField("op", op).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
