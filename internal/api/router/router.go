package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontraq/kontraq-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marketplace-api-service",
		})
	})

	h := handler.NewHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			// POST /api/v1/jobs - Post a new job (trial-gated)
			jobs.POST("", h.CreateJob)

			// GET /api/v1/jobs - List jobs with status/zip/subcontractor filters
			jobs.GET("", h.ListJobs)

			// GET /api/v1/jobs/:job_id - Get job details
			jobs.GET("/:job_id", h.GetJob)

			// POST /api/v1/jobs/:job_id/assign - Assign the job (trial-gated)
			jobs.POST("/:job_id/assign", h.AssignJob)

			// PATCH /api/v1/jobs/:job_id/status - Advance the job lifecycle
			jobs.PATCH("/:job_id/status", h.UpdateJobStatus)

			// GET /api/v1/jobs/:job_id/eligible-subcontractors - Assignment dialog view
			jobs.GET("/:job_id/eligible-subcontractors", h.EligibleSubcontractors)
		}

		subs := v1.Group("/subcontractors")
		{
			// POST /api/v1/subcontractors - Sign up a profile
			subs.POST("", h.CreateSubcontractor)

			// GET /api/v1/subcontractors - Browse with optional zip/specialty matching
			subs.GET("", h.BrowseSubcontractors)

			// GET /api/v1/subcontractors/:sub_id - Get profile
			subs.GET("/:sub_id", h.GetSubcontractor)

			// PATCH /api/v1/subcontractors/:sub_id - Self-service and admin updates
			subs.PATCH("/:sub_id", h.UpdateSubcontractor)
		}

		accounts := v1.Group("/accounts")
		{
			// POST /api/v1/accounts - Sign up; starts the trial window
			accounts.POST("", h.CreateAccount)

			// GET /api/v1/accounts/:account_id - Account record
			accounts.GET("/:account_id", h.GetAccount)

			// GET /api/v1/accounts/:account_id/trial - Trial banner view
			accounts.GET("/:account_id/trial", h.TrialStatus)
		}

		// GET /api/v1/stats - Contractor dashboard aggregates
		v1.GET("/stats", h.Stats)
	}

	return r
}
