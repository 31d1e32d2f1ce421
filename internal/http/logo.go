package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"job-finder/internal/service"
	"job-finder/internal/storage"
)

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

func (h *Handler) uploadLogo(c *gin.Context) {
	if h.logos == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Logo storage is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLogoSize+64<<10)
	header, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A logo file is required"})
		return
	}
	if header.Size > h.maxLogoSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Logo is too large"})
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	ext, ok := logoExtensions[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported logo type"})
		return
	}

	jobID := c.Param("id")
	// fail before anything is uploaded
	current, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, "uploadLogo", err)
		return
	}
	user, err := h.users.GetBySubject(c.Request.Context(), subjectFrom(c))
	if err != nil {
		h.writeError(c, "uploadLogo", err)
		return
	}
	if current.CreatedBy != user.ID {
		h.writeError(c, "uploadLogo", service.ErrNotOwner)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unreadable logo file"})
		return
	}
	defer file.Close()

	key := path.Join(h.jobLogoPrefix(current.ID), "logo-"+uuid.NewString()+ext)
	if _, err := h.logos.Upload(c.Request.Context(), file, storage.UploadOptions{
		Bucket:      h.bucket,
		Key:         key,
		ContentType: contentType,
	}); err != nil {
		h.writeError(c, "uploadLogo", err)
		return
	}

	job, err := h.jobs.SetLogo(c.Request.Context(), jobID, subjectFrom(c), key)
	if err != nil {
		if derr := h.logos.DeletePrefix(c.Request.Context(), h.bucket, key); derr != nil {
			h.logger.WithError(derr).WithField("key", key).Warn("remove orphaned logo")
		}
		h.writeError(c, "uploadLogo", err)
		return
	}

	if current.LogoKey != "" && current.LogoKey != key {
		if err := h.logos.DeletePrefix(c.Request.Context(), h.bucket, current.LogoKey); err != nil {
			h.logger.WithError(err).WithField("key", current.LogoKey).Warn("remove previous logo")
		}
	}
	c.JSON(http.StatusOK, h.jobToResponse(c.Request.Context(), *job))
}
