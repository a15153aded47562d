package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kontraq/kontraq-be/internal/api/dto"
	"github.com/kontraq/kontraq-be/internal/domain"
)

// CreateSubcontractor handles POST /api/v1/subcontractors
// Signs up a subcontractor profile. Zip and specialty lists follow the
// self-service caps unless the caller is an admin.
func (h *Handler) CreateSubcontractor(c *gin.Context) {
	caller := callerFrom(c)

	var req dto.CreateSubcontractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	zips, err := validateZipCodes(req.ZipCodes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	specialties, err := validateSpecialties(req.Specialties, caller.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	sub := domain.Subcontractor{
		SubcontractorID: uuid.New().String(),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ZipCodes:        zips,
		Specialties:     specialties,
		Availability:    domain.AvailabilityAvailable,
		LicenseStatus:   domain.LicenseStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.store.UpsertSubcontractor(c.Request.Context(), &sub); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Subcontractor created",
		slog.String("subcontractor_id", sub.SubcontractorID),
		slog.String("name", sub.Name),
	)

	c.JSON(http.StatusCreated, sub)
}

// GetSubcontractor handles GET /api/v1/subcontractors/:sub_id
func (h *Handler) GetSubcontractor(c *gin.Context) {
	sub, err := h.store.GetSubcontractor(c.Request.Context(), c.Param("sub_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// BrowseSubcontractors handles GET /api/v1/subcontractors
// The discovery view: availability+license always apply, zip and specialty
// matching only when the corresponding query parameter is present.
func (h *Handler) BrowseSubcontractors(c *gin.Context) {
	var req dto.BrowseSubcontractorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.Specialty != "" && !domain.ValidSpecialty(domain.Specialty(req.Specialty)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "specialty is not a known specialty"})
		return
	}

	subs, err := h.facade.BrowseSubcontractors(c.Request.Context(), req.Zip, domain.Specialty(req.Specialty))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcontractors": subs})
}

// UpdateSubcontractor handles PATCH /api/v1/subcontractors/:sub_id
// Profile mutation for both self-service and admin overrides; both run
// through the same validation, the role only widens the specialty cap and
// permits the license override.
func (h *Handler) UpdateSubcontractor(c *gin.Context) {
	caller := callerFrom(c)

	var req dto.UpdateSubcontractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sub, err := h.store.GetSubcontractor(c.Request.Context(), c.Param("sub_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if req.Availability != nil {
		switch domain.Availability(*req.Availability) {
		case domain.AvailabilityAvailable, domain.AvailabilityBooked:
			sub.Availability = domain.Availability(*req.Availability)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown availability"})
			return
		}
	}

	if req.LicenseStatus != nil {
		if caller.Role != domain.RoleAdmin {
			h.respondError(c, fmt.Errorf("%w: license status is admin-managed", domain.ErrAccessDenied))
			return
		}
		switch domain.LicenseStatus(*req.LicenseStatus) {
		case domain.LicenseStatusValid, domain.LicenseStatusExpired, domain.LicenseStatusPending:
			sub.LicenseStatus = domain.LicenseStatus(*req.LicenseStatus)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown license status"})
			return
		}
	}

	if req.ZipCodes != nil {
		zips, err := validateZipCodes(*req.ZipCodes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub.ZipCodes = zips
	}

	if req.Specialties != nil {
		specialties, err := validateSpecialties(*req.Specialties, caller.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub.Specialties = specialties
	}

	sub.UpdatedAt = time.Now().UTC()
	if err := h.store.UpsertSubcontractor(c.Request.Context(), sub); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Subcontractor updated",
		slog.String("subcontractor_id", sub.SubcontractorID),
		slog.String("role", string(caller.Role)),
	)

	c.JSON(http.StatusOK, sub)
}

// validateZipCodes checks the 5-digit shape and the service-area cap,
// dropping duplicates while preserving order.
func validateZipCodes(zips []string) ([]string, error) {
	seen := make(map[string]bool, len(zips))
	out := make([]string, 0, len(zips))
	for _, zip := range zips {
		if !validZip(zip) {
			return nil, fmt.Errorf("zip code %q must be a 5-digit code", zip)
		}
		if seen[zip] {
			continue
		}
		seen[zip] = true
		out = append(out, zip)
	}
	if len(out) > domain.MaxZipCodes {
		return nil, fmt.Errorf("at most %d zip codes are allowed", domain.MaxZipCodes)
	}
	return out, nil
}

// validateSpecialties checks the closed vocabulary and the per-role cap.
func validateSpecialties(raw []string, role domain.Role) ([]domain.Specialty, error) {
	seen := make(map[domain.Specialty]bool, len(raw))
	out := make([]domain.Specialty, 0, len(raw))
	for _, s := range raw {
		sp := domain.Specialty(s)
		if !domain.ValidSpecialty(sp) {
			return nil, fmt.Errorf("%q is not a known specialty", s)
		}
		if seen[sp] {
			continue
		}
		seen[sp] = true
		out = append(out, sp)
	}
	if role != domain.RoleAdmin && len(out) > domain.MaxSelfServiceSpecialties {
		return nil, fmt.Errorf("at most %d specialties are allowed", domain.MaxSelfServiceSpecialties)
	}
	return out, nil
}
