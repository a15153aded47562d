package dto

type CreateJobRequest struct {
	ClientName  string  `json:"client_name" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	ZipCode     string  `json:"zip_code" binding:"required"`
	JobType     string  `json:"job_type" binding:"required"`
	QuoteAmount float64 `json:"quote_amount"`
}

type AssignJobRequest struct {
	SubcontractorID string `json:"subcontractor_id" binding:"required"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListJobsRequest struct {
	Status          string `form:"status"`
	Zip             string `form:"zip"`
	SubcontractorID string `form:"subcontractor_id"`
}

type CreateSubcontractorRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Phone       string   `json:"phone" binding:"required"`
	ZipCodes    []string `json:"zip_codes"`
	Specialties []string `json:"specialties"`
}

// UpdateSubcontractorRequest carries partial profile updates. Nil fields
// are untouched. Availability and license changes are accepted from the
// profile owner and admins; license status normally arrives through the
// verification flow.
type UpdateSubcontractorRequest struct {
	Availability  *string   `json:"availability"`
	LicenseStatus *string   `json:"license_status"`
	ZipCodes      *[]string `json:"zip_codes"`
	Specialties   *[]string `json:"specialties"`
}

type BrowseSubcontractorsRequest struct {
	Zip       string `form:"zip"`
	Specialty string `form:"specialty"`
}

type CreateAccountRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}
