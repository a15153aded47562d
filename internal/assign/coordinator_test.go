package assign

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/internal/lifecycle"
	"github.com/kontraq/kontraq-be/internal/trial"
)

// recordingNotifier captures published events and optionally fails.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AssignmentEvent
	err    error
}

func (n *recordingNotifier) JobAssigned(_ context.Context, event domain.AssignmentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func testCoordinator(t *testing.T, store directory.Store, opts func(*Config)) *Coordinator {
	t.Helper()
	cfg := &Config{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:     store,
		Lifecycle: lifecycle.NewManager(),
	}
	if opts != nil {
		opts(cfg)
	}
	return NewCoordinator(cfg)
}

func seedStore(t *testing.T) *directory.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := directory.NewMemoryStore()

	require.NoError(t, store.UpsertJob(ctx, &domain.Job{
		JobID:      "1",
		ClientName: "Alice Cooper",
		Location:   "123 Main St",
		ZipCode:    "78704",
		JobType:    domain.SpecialtyMetalRoofingLabor,
		Status:     domain.JobStatusOpen,
	}))

	require.NoError(t, store.UpsertSubcontractor(ctx, &domain.Subcontractor{
		SubcontractorID: "2",
		Name:            "Mike Builder",
		Phone:           "512-555-1234",
		Availability:    domain.AvailabilityAvailable,
		LicenseStatus:   domain.LicenseStatusValid,
	}))

	return store
}

func TestCoordinator_AssignSuccess(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	notifier := &recordingNotifier{}
	c := testCoordinator(t, store, func(cfg *Config) {
		cfg.Notifier = notifier
	})

	job, err := c.Assign(ctx, "", "1", "2")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, job.Status)
	assert.Equal(t, "2", job.SubcontractorID)

	// The commit is visible through the store.
	stored, err := store.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, stored.Status)

	// The post-commit event carries the assignment payload.
	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.AssignmentEvent{
		JobID:           "1",
		SubcontractorID: "2",
		EventType:       "assigned",
	}, notifier.events[0])

	// Availability is untouched unless the booked policy is enabled.
	sub, err := store.GetSubcontractor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityAvailable, sub.Availability)
}

func TestCoordinator_AssignFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, store *directory.MemoryStore)
		jobID   string
		subID   string
		wantErr error
	}{
		{
			name:    "job not found",
			jobID:   "missing",
			subID:   "2",
			wantErr: domain.ErrJobNotFound,
		},
		{
			name:    "subcontractor not found",
			jobID:   "1",
			subID:   "missing",
			wantErr: domain.ErrSubcontractorNotFound,
		},
		{
			name: "job not open",
			mutate: func(t *testing.T, store *directory.MemoryStore) {
				job, err := store.GetJob(context.Background(), "1")
				require.NoError(t, err)
				job.Status = domain.JobStatusAssigned
				job.SubcontractorID = "9"
				require.NoError(t, store.UpsertJob(context.Background(), job))
			},
			jobID:   "1",
			subID:   "2",
			wantErr: domain.ErrJobNotOpen,
		},
		{
			name: "subcontractor booked",
			mutate: func(t *testing.T, store *directory.MemoryStore) {
				sub, err := store.GetSubcontractor(context.Background(), "2")
				require.NoError(t, err)
				sub.Availability = domain.AvailabilityBooked
				require.NoError(t, store.UpsertSubcontractor(context.Background(), sub))
			},
			jobID:   "1",
			subID:   "2",
			wantErr: domain.ErrSubcontractorIneligible,
		},
		{
			name: "license expired",
			mutate: func(t *testing.T, store *directory.MemoryStore) {
				sub, err := store.GetSubcontractor(context.Background(), "2")
				require.NoError(t, err)
				sub.LicenseStatus = domain.LicenseStatusExpired
				require.NoError(t, store.UpsertSubcontractor(context.Background(), sub))
			},
			jobID:   "1",
			subID:   "2",
			wantErr: domain.ErrSubcontractorIneligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedStore(t)
			if tt.mutate != nil {
				tt.mutate(t, store)
			}
			notifier := &recordingNotifier{}
			c := testCoordinator(t, store, func(cfg *Config) {
				cfg.Notifier = notifier
			})

			_, err := c.Assign(context.Background(), "", tt.jobID, tt.subID)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, notifier.events, "no event on failed assignment")
		})
	}
}

func TestCoordinator_AssignTrialGate(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertAccount(ctx, &domain.Account{
		AccountID:     "expired-contractor",
		Role:          domain.RoleContractor,
		PaymentStatus: domain.PaymentStatusPending,
		TrialEndsAt:   now.Add(-24 * time.Hour),
	}))
	require.NoError(t, store.UpsertAccount(ctx, &domain.Account{
		AccountID:     "paying-contractor",
		Role:          domain.RoleContractor,
		PaymentStatus: domain.PaymentStatusActive,
		TrialEndsAt:   now.Add(-24 * time.Hour),
	}))

	gate := trial.NewGateWithClock(store, func() time.Time { return now })
	c := testCoordinator(t, store, func(cfg *Config) {
		cfg.Gate = gate
	})

	_, err := c.Assign(ctx, "expired-contractor", "1", "2")
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	// A missing actor must fail closed, not slip past the gate.
	_, err = c.Assign(ctx, "", "1", "2")
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	// The job is untouched after a gate rejection.
	job, err := store.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusOpen, job.Status)

	_, err = c.Assign(ctx, "paying-contractor", "1", "2")
	require.NoError(t, err)
}

func TestCoordinator_AssignNotifierFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	notifier := &recordingNotifier{err: errors.New("broker down")}
	c := testCoordinator(t, store, func(cfg *Config) {
		cfg.Notifier = notifier
	})

	job, err := c.Assign(ctx, "", "1", "2")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, job.Status)

	stored, err := store.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, stored.Status)
}

func TestCoordinator_AssignMarksBookedWhenConfigured(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	c := testCoordinator(t, store, func(cfg *Config) {
		cfg.MarkSubcontractorBooked = true
	})

	_, err := c.Assign(ctx, "", "1", "2")
	require.NoError(t, err)

	sub, err := store.GetSubcontractor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityBooked, sub.Availability)
}

func TestCoordinator_ConcurrentAssignSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	require.NoError(t, store.UpsertSubcontractor(ctx, &domain.Subcontractor{
		SubcontractorID: "3",
		Name:            "David Williams",
		Availability:    domain.AvailabilityAvailable,
		LicenseStatus:   domain.LicenseStatusValid,
	}))

	c := testCoordinator(t, store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, subID := range []string{"2", "3"} {
		wg.Add(1)
		go func(i int, subID string) {
			defer wg.Done()
			_, errs[i] = c.Assign(ctx, "", "1", subID)
		}(i, subID)
	}
	wg.Wait()

	var successes, failures int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		failures++
		assert.ErrorIs(t, err, domain.ErrJobNotOpen)
	}
	assert.Equal(t, 1, successes, "exactly one assign wins")
	assert.Equal(t, 1, failures)

	job, err := store.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, job.Status)
	assert.Contains(t, []string{"2", "3"}, job.SubcontractorID)
}

func TestCoordinator_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	c := testCoordinator(t, store, nil)

	// Open -> Assigned without a subcontractor must go through Assign.
	_, err := c.UpdateStatus(ctx, "1", domain.JobStatusAssigned)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = c.Assign(ctx, "", "1", "2")
	require.NoError(t, err)

	// Idempotent reapply.
	job, err := c.UpdateStatus(ctx, "1", domain.JobStatusAssigned)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, job.Status)

	job, err = c.UpdateStatus(ctx, "1", domain.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, "2", job.SubcontractorID)

	// Completed is terminal.
	_, err = c.UpdateStatus(ctx, "1", domain.JobStatusOpen)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = c.UpdateStatus(ctx, "missing", domain.JobStatusCompleted)
	require.ErrorIs(t, err, domain.ErrJobNotFound)
}
