package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kontraq/kontraq-be/internal/api/dto"
	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
)

// CreateJob handles POST /api/v1/jobs
// Posts a new job in Open status. Trial-gated for contractor accounts.
func (h *Handler) CreateJob(c *gin.Context) {
	caller := callerFrom(c)

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !validZip(req.ZipCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zip_code must be a 5-digit code"})
		return
	}

	if !domain.ValidSpecialty(domain.Specialty(req.JobType)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_type is not a known specialty"})
		return
	}

	if req.QuoteAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quote_amount must not be negative"})
		return
	}

	if err := h.gate.Allow(c.Request.Context(), caller.AccountID); err != nil {
		h.respondError(c, err)
		return
	}

	now := time.Now().UTC()
	job := domain.Job{
		JobID:        uuid.New().String(),
		ContractorID: caller.AccountID,
		ClientName:   req.ClientName,
		Location:     req.Location,
		ZipCode:      req.ZipCode,
		JobType:      domain.Specialty(req.JobType),
		Status:       domain.JobStatusOpen,
		QuoteAmount:  req.QuoteAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.UpsertJob(c.Request.Context(), &job); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("contractor_id", job.ContractorID),
		slog.String("job_type", string(job.JobType)),
	)

	c.JSON(http.StatusCreated, job)
}

// ListJobs handles GET /api/v1/jobs
// Filters by status, zip, or subcontractor; unfiltered returns everything.
func (h *Handler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.Status != "" && !domain.ValidJobStatus(domain.JobStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	jobs, err := h.listJobsView(c, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// listJobsView dispatches single-clause queries to the named facade views;
// combined filters fall through to the generic one.
func (h *Handler) listJobsView(c *gin.Context, req *dto.ListJobsRequest) ([]domain.Job, error) {
	ctx := c.Request.Context()

	switch {
	case req.SubcontractorID != "" && req.Status == "" && req.Zip == "":
		return h.facade.JobsBySubcontractor(ctx, req.SubcontractorID)
	case req.Zip != "" && req.Status == "" && req.SubcontractorID == "":
		return h.facade.JobsByZip(ctx, req.Zip)
	case req.Status != "" && req.Zip == "" && req.SubcontractorID == "":
		switch domain.JobStatus(req.Status) {
		case domain.JobStatusOpen:
			return h.facade.OpenJobs(ctx)
		case domain.JobStatusAssigned:
			return h.facade.ActiveJobs(ctx)
		case domain.JobStatusCompleted:
			return h.facade.CompletedJobs(ctx)
		}
	}

	return h.facade.Jobs(ctx, directory.JobFilter{
		Status:          domain.JobStatus(req.Status),
		ZipCode:         req.Zip,
		SubcontractorID: req.SubcontractorID,
	})
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.facade.Job(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// AssignJob handles POST /api/v1/jobs/:job_id/assign
// Commits Open -> Assigned through the coordinator. Trial-gated.
func (h *Handler) AssignJob(c *gin.Context) {
	caller := callerFrom(c)
	jobID := c.Param("job_id")

	var req dto.AssignJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subcontractor_id is required"})
		return
	}

	job, err := h.coordinator.Assign(c.Request.Context(), caller.AccountID, jobID, req.SubcontractorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJobStatus handles PATCH /api/v1/jobs/:job_id/status
// Advances the job lifecycle; reapplying the current status is a no-op.
func (h *Handler) UpdateJobStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	job, err := h.coordinator.UpdateStatus(c.Request.Context(), jobID, domain.JobStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// EligibleSubcontractors handles GET /api/v1/jobs/:job_id/eligible-subcontractors
// The assignment dialog view: Available subcontractors with a Valid license.
func (h *Handler) EligibleSubcontractors(c *gin.Context) {
	subs, err := h.facade.EligibleSubcontractorsForJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcontractors": subs})
}

// Stats handles GET /api/v1/stats
// Contractor dashboard aggregates: status counts and success rate.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
