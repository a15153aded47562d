package domain

import "time"

// JobStatus is the lifecycle state of a job. Jobs advance strictly
// Open -> Assigned -> Completed; Completed is terminal.
type JobStatus string

const (
	JobStatusOpen      JobStatus = "Open"
	JobStatusAssigned  JobStatus = "Assigned"
	JobStatusCompleted JobStatus = "Completed"
)

// ValidJobStatus reports whether s is one of the known job statuses.
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusOpen, JobStatusAssigned, JobStatusCompleted:
		return true
	}
	return false
}

// Job is a work order posted by a contractor. SubcontractorID is set
// exactly when the job is Assigned or Completed. Version backs the
// optimistic concurrency check on writes.
type Job struct {
	JobID           string    `db:"job_id" json:"job_id"`
	ContractorID    string    `db:"contractor_id" json:"contractor_id"`
	ClientName      string    `db:"client_name" json:"client_name"`
	Location        string    `db:"location" json:"location"`
	ZipCode         string    `db:"zip_code" json:"zip_code"`
	JobType         Specialty `db:"job_type" json:"job_type"`
	Status          JobStatus `db:"status" json:"status"`
	SubcontractorID string    `db:"subcontractor_id" json:"subcontractor_id,omitempty"`
	QuoteAmount     float64   `db:"quote_amount" json:"quote_amount,omitempty"`
	InspectorID     string    `db:"inspector_id" json:"inspector_id,omitempty"`
	Version         int64     `db:"version" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
