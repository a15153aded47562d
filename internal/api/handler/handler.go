package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontraq/kontraq-be/internal/assign"
	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/internal/query"
	"github.com/kontraq/kontraq-be/internal/trial"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	Store       directory.Store
	Coordinator *assign.Coordinator
	Facade      *query.Facade
	Gate        *trial.Gate
}

// Handler handles marketplace HTTP requests
type Handler struct {
	logger      *slog.Logger
	store       directory.Store
	coordinator *assign.Coordinator
	facade      *query.Facade
	gate        *trial.Gate
}

// NewHandler creates a new Handler instance
func NewHandler(deps *Dependencies) *Handler {
	return &Handler{
		logger:      deps.Logger,
		store:       deps.Store,
		coordinator: deps.Coordinator,
		facade:      deps.Facade,
		gate:        deps.Gate,
	}
}

// actor identifies the caller. Authentication itself happens upstream;
// the trusted proxy forwards the resolved account id and role.
type actor struct {
	AccountID string
	Role      domain.Role
}

func callerFrom(c *gin.Context) actor {
	return actor{
		AccountID: c.GetHeader("X-Account-ID"),
		Role:      domain.Role(c.GetHeader("X-Account-Role")),
	}
}

// respondError maps domain errors onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrSubcontractorNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrJobNotOpen),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSubcontractorIneligible):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// validZip reports whether zip is exactly five ASCII digits.
func validZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for _, r := range zip {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
