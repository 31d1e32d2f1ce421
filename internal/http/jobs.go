package http

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"job-finder/internal/domain"
	"job-finder/internal/service"
)

type createJobRequest struct {
	Title       string            `json:"title" binding:"max=200"`
	Location    string            `json:"location" binding:"max=200"`
	Salary      float64           `json:"salary" binding:"gte=0"`
	SalaryType  domain.SalaryType `json:"salaryType"`
	Negotiable  bool              `json:"negotiable"`
	JobType     domain.JobType    `json:"jobType"`
	Description string            `json:"description" binding:"max=20000"`
	Tags        []string          `json:"tags" binding:"max=30,dive,max=50"`
	Skills      []string          `json:"skills" binding:"max=30,dive,max=50"`
}

func (r createJobRequest) toInput() service.CreateJobInput {
	return service.CreateJobInput{
		Title:       r.Title,
		Location:    r.Location,
		Salary:      r.Salary,
		SalaryType:  r.SalaryType,
		Negotiable:  r.Negotiable,
		JobType:     r.JobType,
		Description: r.Description,
		Tags:        r.Tags,
		Skills:      r.Skills,
	}
}

func (h *Handler) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), subjectFrom(c), req.toInput())
	if err != nil {
		h.writeError(c, "createJob", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Job created successfully",
		"job":     h.jobToResponse(c.Request.Context(), *job),
	})
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.jobs.ListJobs(c.Request.Context())
	if err != nil {
		h.writeError(c, "listJobs", err)
		return
	}
	c.JSON(http.StatusOK, h.jobsToResponse(c.Request.Context(), jobs))
}

func (h *Handler) listJobsByUser(c *gin.Context) {
	jobs, err := h.jobs.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "listJobsByUser", err)
		return
	}
	c.JSON(http.StatusOK, h.jobsToResponse(c.Request.Context(), jobs))
}

func (h *Handler) searchJobs(c *gin.Context) {
	filter := domain.JobFilter{
		Tags:     service.ParseTags(c.Query("tags")),
		Location: c.Query("location"),
		Title:    c.Query("title"),
	}

	jobs, err := h.jobs.Search(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "searchJobs", err)
		return
	}
	c.JSON(http.StatusOK, h.jobsToResponse(c.Request.Context(), jobs))
}

func (h *Handler) getJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "getJob", err)
		return
	}
	c.JSON(http.StatusOK, h.jobToResponse(c.Request.Context(), *job))
}

func (h *Handler) applyJob(c *gin.Context) {
	job, err := h.jobs.Apply(c.Request.Context(), c.Param("id"), subjectFrom(c))
	if err != nil {
		h.writeError(c, "applyJob", err)
		return
	}
	c.JSON(http.StatusOK, h.jobToResponse(c.Request.Context(), *job))
}

func (h *Handler) likeJob(c *gin.Context) {
	job, liked, err := h.jobs.ToggleLike(c.Request.Context(), c.Param("id"), subjectFrom(c))
	if err != nil {
		h.writeError(c, "likeJob", err)
		return
	}

	message := "Job unliked"
	if liked {
		message = "Job liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"job":     h.jobToResponse(c.Request.Context(), *job),
	})
}

func (h *Handler) deleteJob(c *gin.Context) {
	job, err := h.jobs.DeleteJob(c.Request.Context(), c.Param("id"), subjectFrom(c))
	if err != nil {
		h.writeError(c, "deleteJob", err)
		return
	}

	resp := gin.H{"message": "Job deleted successfully"}
	if job.LogoKey != "" && h.logos != nil {
		// a leftover object is reported, not fatal
		remoteCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := h.logos.DeletePrefix(remoteCtx, h.bucket, h.jobLogoPrefix(job.ID)); err != nil {
			h.logger.WithError(err).WithField("job", job.ID).Warn("delete job logo")
			resp["warnings"] = []string{"job logo could not be removed"}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) jobLogoPrefix(jobID string) string {
	return path.Join(h.keyPrefix, "jobs", jobID) + "/"
}
