package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kontraq/kontraq-be/internal/api/dto"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/internal/trial"
)

// CreateAccount handles POST /api/v1/accounts
// Signup starts every account on the default trial window; payment status
// flips to active through the external billing flow, not through this API.
func (h *Handler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	role := domain.Role(req.Role)
	if role != domain.RoleAdmin && role != domain.RoleContractor && role != domain.RoleSubcontractor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin, contractor, or subcontractor"})
		return
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Role:          role,
		PaymentStatus: domain.PaymentStatusPending,
		TrialEndsAt:   now.Add(trial.DefaultTrialPeriod),
		CreatedAt:     now,
	}

	if err := h.store.UpsertAccount(c.Request.Context(), &account); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)),
	)

	c.JSON(http.StatusCreated, account)
}

// GetAccount handles GET /api/v1/accounts/:account_id
func (h *Handler) GetAccount(c *gin.Context) {
	account, err := h.store.GetAccount(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// TrialStatus handles GET /api/v1/accounts/:account_id/trial
// The trial banner view: remaining window and whether it is still running.
func (h *Handler) TrialStatus(c *gin.Context) {
	info, err := h.gate.Info(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
