package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/bottling/backend/internal/infrastructure/scheduler"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// JobRunner is the part of the scheduler the HTTP API drives
type JobRunner interface {
	Status() []scheduler.JobSnapshot
	RunNow(ctx context.Context, name string) error
}

// SchedulerHandler exposes background job status and manual triggers
type SchedulerHandler struct {
	BaseHandler
	jobs JobRunner
}

// NewSchedulerHandler creates a new SchedulerHandler
func NewSchedulerHandler(jobs JobRunner) *SchedulerHandler {
	return &SchedulerHandler{jobs: jobs}
}

// ListJobs returns every registered job with its last outcome.
// GET /scheduler/jobs
func (h *SchedulerHandler) ListJobs(c *gin.Context) {
	h.Success(c, h.jobs.Status())
}

// RunJob runs a job immediately and waits for it to finish.
// POST /scheduler/jobs/:name/run
func (h *SchedulerHandler) RunJob(c *gin.Context) {
	name := c.Param("name")
	err := h.jobs.RunNow(c.Request.Context(), name)
	switch {
	case err == nil:
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job "+name+" not found")
		return
	case errors.Is(err, scheduler.ErrLockNotObtained):
		h.Error(c, http.StatusConflict, dto.ErrCodeConcurrencyConflict, "Job "+name+" is already running")
		return
	default:
		h.HandleError(c, err)
		return
	}

	for _, job := range h.jobs.Status() {
		if job.Name == name {
			h.Success(c, job)
			return
		}
	}
	h.Success(c, gin.H{"name": name})
}
