package domain

import "time"

// Availability indicates whether a subcontractor can take on new work.
type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBooked    Availability = "Booked"
)

// LicenseStatus is the outcome of the external document verification flow.
// Only Valid subcontractors are eligible for assignment.
type LicenseStatus string

const (
	LicenseStatusValid   LicenseStatus = "Valid"
	LicenseStatusExpired LicenseStatus = "Expired"
	LicenseStatusPending LicenseStatus = "Pending"
)

const (
	// MaxZipCodes caps the service-area list on a subcontractor profile.
	MaxZipCodes = 3

	// MaxSelfServiceSpecialties caps specialties on self-managed profiles.
	// Admin-managed profiles are not capped.
	MaxSelfServiceSpecialties = 5
)

// Subcontractor is a trade professional who fulfills jobs. ZipCodes and
// Specialties drive the browse/discovery filters; Availability and
// LicenseStatus gate assignment.
type Subcontractor struct {
	SubcontractorID string        `db:"subcontractor_id" json:"subcontractor_id"`
	Name            string        `db:"name" json:"name"`
	Email           string        `db:"email" json:"email"`
	Phone           string        `db:"phone" json:"phone"`
	ZipCodes        []string      `json:"zip_codes"`
	Specialties     []Specialty   `json:"specialties"`
	Availability    Availability  `db:"availability" json:"availability"`
	LicenseStatus   LicenseStatus `db:"license_status" json:"license_status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// ServesZip reports whether zip is in the subcontractor's service area.
func (s *Subcontractor) ServesZip(zip string) bool {
	for _, z := range s.ZipCodes {
		if z == zip {
			return true
		}
	}
	return false
}

// HasSpecialty reports whether the subcontractor lists the given trade.
// Matching is exact, not fuzzy.
func (s *Subcontractor) HasSpecialty(sp Specialty) bool {
	for _, have := range s.Specialties {
		if have == sp {
			return true
		}
	}
	return false
}
