package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontraq/kontraq-be/internal/domain"
)

func TestManager_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.JobStatus
		to      domain.JobStatus
		subID   string
		wantErr error
	}{
		{
			name:  "open to assigned with subcontractor",
			from:  domain.JobStatusOpen,
			to:    domain.JobStatusAssigned,
			subID: "sub-1",
		},
		{
			name:    "open to assigned without subcontractor",
			from:    domain.JobStatusOpen,
			to:      domain.JobStatusAssigned,
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name: "assigned to completed",
			from: domain.JobStatusAssigned,
			to:   domain.JobStatusCompleted,
		},
		{
			name:    "open to completed skips assigned",
			from:    domain.JobStatusOpen,
			to:      domain.JobStatusCompleted,
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "completed back to open",
			from:    domain.JobStatusCompleted,
			to:      domain.JobStatusOpen,
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "completed back to assigned",
			from:    domain.JobStatusCompleted,
			to:      domain.JobStatusAssigned,
			subID:   "sub-1",
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "assigned back to open",
			from:    domain.JobStatusAssigned,
			to:      domain.JobStatusOpen,
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "unknown status",
			from:    domain.JobStatusOpen,
			to:      domain.JobStatus("Archived"),
			wantErr: domain.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			job := &domain.Job{JobID: "job-1", Status: tt.from}

			out, err := m.Transition(job, tt.to, tt.subID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				// The input job is never mutated on failure.
				assert.Equal(t, tt.from, job.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, out.Status)
			if tt.from == domain.JobStatusOpen && tt.to == domain.JobStatusAssigned {
				assert.Equal(t, tt.subID, out.SubcontractorID)
			}
			// Transition returns a copy.
			assert.Equal(t, tt.from, job.Status)
		})
	}
}

func TestManager_TransitionIdempotent(t *testing.T) {
	m := NewManager()

	for _, status := range []domain.JobStatus{
		domain.JobStatusOpen,
		domain.JobStatusAssigned,
		domain.JobStatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			job := &domain.Job{JobID: "job-1", Status: status, SubcontractorID: "sub-1"}

			out, err := m.Transition(job, status, "")

			require.NoError(t, err)
			assert.Equal(t, *job, *out)
		})
	}
}

func TestManager_TransitionRetainsSubcontractorOnComplete(t *testing.T) {
	m := NewManager()
	job := &domain.Job{
		JobID:           "job-1",
		Status:          domain.JobStatusAssigned,
		SubcontractorID: "sub-9",
	}

	out, err := m.Transition(job, domain.JobStatusCompleted, "")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, out.Status)
	assert.Equal(t, "sub-9", out.SubcontractorID)
}
