// Package eligibility decides which subcontractors may take a given job.
// The filter is a pure function: no storage access, no side effects, and
// input order is preserved so callers control presentation ranking.
package eligibility

import (
	"github.com/kontraq/kontraq-be/internal/domain"
)

// Criteria is a composition of independently toggled clauses. The
// assignment flow checks availability and license only; the browse flow
// adds zip and specialty matching on top of the same predicate.
type Criteria struct {
	RequireAvailable    bool
	RequireValidLicense bool
	MatchZip            bool
	MatchSpecialty      bool
}

// AssignmentCriteria gates the assign flow: the subcontractor must be
// Available with a Valid license at the instant of assignment.
func AssignmentCriteria() Criteria {
	return Criteria{
		RequireAvailable:    true,
		RequireValidLicense: true,
	}
}

// BrowseCriteria gates discovery views: availability and license as in
// assignment, plus service-area and trade matching against the job.
func BrowseCriteria(matchZip, matchSpecialty bool) Criteria {
	return Criteria{
		RequireAvailable:    true,
		RequireValidLicense: true,
		MatchZip:            matchZip,
		MatchSpecialty:      matchSpecialty,
	}
}

// Eligible reports whether sub passes every enabled clause for job.
func Eligible(job *domain.Job, sub *domain.Subcontractor, c Criteria) bool {
	if c.RequireAvailable && sub.Availability != domain.AvailabilityAvailable {
		return false
	}
	if c.RequireValidLicense && sub.LicenseStatus != domain.LicenseStatusValid {
		return false
	}
	if c.MatchZip && !sub.ServesZip(job.ZipCode) {
		return false
	}
	if c.MatchSpecialty && !sub.HasSpecialty(job.JobType) {
		return false
	}
	return true
}

// Filter returns the subcontractors eligible for job, in input order.
func Filter(job *domain.Job, subs []domain.Subcontractor, c Criteria) []domain.Subcontractor {
	eligible := make([]domain.Subcontractor, 0, len(subs))
	for i := range subs {
		if Eligible(job, &subs[i], c) {
			eligible = append(eligible, subs[i])
		}
	}
	return eligible
}
