package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
)

func seedJobs(t *testing.T, store directory.Store, jobs ...*domain.Job) {
	t.Helper()
	for _, job := range jobs {
		require.NoError(t, store.UpsertJob(context.Background(), job))
	}
}

func jobIDs(jobs []domain.Job) []string {
	ids := make([]string, 0, len(jobs))
	for i := range jobs {
		ids = append(ids, jobs[i].JobID)
	}
	return ids
}

func TestFacade_JobViews(t *testing.T) {
	ctx := context.Background()
	store := directory.NewMemoryStore()
	seedJobs(t, store,
		&domain.Job{JobID: "j1", ZipCode: "78704", Status: domain.JobStatusOpen},
		&domain.Job{JobID: "j2", ZipCode: "78705", Status: domain.JobStatusAssigned, SubcontractorID: "s1"},
		&domain.Job{JobID: "j3", ZipCode: "78704", Status: domain.JobStatusCompleted, SubcontractorID: "s1"},
		&domain.Job{JobID: "j4", ZipCode: "78704", Status: domain.JobStatusOpen},
	)

	f := NewFacade(store)

	open, err := f.OpenJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j4"}, jobIDs(open))

	active, err := f.ActiveJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"j2"}, jobIDs(active))

	completed, err := f.CompletedJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"j3"}, jobIDs(completed))

	bySub, err := f.JobsBySubcontractor(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"j2", "j3"}, jobIDs(bySub))

	byZip, err := f.JobsByZip(ctx, "78704")
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j3", "j4"}, jobIDs(byZip))

	// Combined clauses go through the generic view.
	combined, err := f.Jobs(ctx, directory.JobFilter{
		Status:  domain.JobStatusOpen,
		ZipCode: "78704",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j4"}, jobIDs(combined))
}

func TestFacade_Job(t *testing.T) {
	ctx := context.Background()
	store := directory.NewMemoryStore()
	seedJobs(t, store, &domain.Job{JobID: "j1", ZipCode: "78704", Status: domain.JobStatusOpen})

	f := NewFacade(store)

	job, err := f.Job(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.JobID)

	_, err = f.Job(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestFacade_Stats(t *testing.T) {
	tests := []struct {
		name      string
		jobs      []*domain.Job
		wantStats Stats
	}{
		{
			name:      "empty directory",
			wantStats: Stats{},
		},
		{
			name: "only open jobs keeps rate at zero",
			jobs: []*domain.Job{
				{JobID: "j1", Status: domain.JobStatusOpen},
				{JobID: "j2", Status: domain.JobStatusOpen},
			},
			wantStats: Stats{OpenCount: 2},
		},
		{
			name: "one assigned one completed",
			jobs: []*domain.Job{
				{JobID: "j1", Status: domain.JobStatusOpen},
				{JobID: "j2", Status: domain.JobStatusAssigned, SubcontractorID: "s1"},
				{JobID: "j3", Status: domain.JobStatusCompleted, SubcontractorID: "s2"},
			},
			wantStats: Stats{OpenCount: 1, AssignedCount: 1, CompletedCount: 1, SuccessRate: 0.5},
		},
		{
			name: "all completed",
			jobs: []*domain.Job{
				{JobID: "j1", Status: domain.JobStatusCompleted, SubcontractorID: "s1"},
				{JobID: "j2", Status: domain.JobStatusCompleted, SubcontractorID: "s1"},
			},
			wantStats: Stats{CompletedCount: 2, SuccessRate: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := directory.NewMemoryStore()
			seedJobs(t, store, tt.jobs...)

			f := NewFacade(store)

			stats, err := f.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats, *stats)

			rate, err := f.SuccessRate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats.SuccessRate, rate)
		})
	}
}

func TestFacade_EligibleSubcontractorsForJob(t *testing.T) {
	ctx := context.Background()
	store := directory.NewMemoryStore()
	seedJobs(t, store, &domain.Job{
		JobID:   "j1",
		ZipCode: "78704",
		JobType: domain.SpecialtyGutterRepair,
		Status:  domain.JobStatusOpen,
	})

	subs := []*domain.Subcontractor{
		{SubcontractorID: "s1", Availability: domain.AvailabilityAvailable, LicenseStatus: domain.LicenseStatusValid},
		{SubcontractorID: "s2", Availability: domain.AvailabilityBooked, LicenseStatus: domain.LicenseStatusValid},
		{SubcontractorID: "s3", Availability: domain.AvailabilityAvailable, LicenseStatus: domain.LicenseStatusExpired},
		{SubcontractorID: "s4", Availability: domain.AvailabilityAvailable, LicenseStatus: domain.LicenseStatusValid},
	}
	for _, sub := range subs {
		require.NoError(t, store.UpsertSubcontractor(ctx, sub))
	}

	f := NewFacade(store)

	eligible, err := f.EligibleSubcontractorsForJob(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "s1", eligible[0].SubcontractorID)
	assert.Equal(t, "s4", eligible[1].SubcontractorID)

	_, err = f.EligibleSubcontractorsForJob(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestFacade_BrowseSubcontractors(t *testing.T) {
	ctx := context.Background()
	store := directory.NewMemoryStore()

	subs := []*domain.Subcontractor{
		{
			SubcontractorID: "s1",
			Availability:    domain.AvailabilityAvailable,
			LicenseStatus:   domain.LicenseStatusValid,
			ZipCodes:        []string{"78704", "78705"},
			Specialties:     []domain.Specialty{domain.SpecialtyGutterRepair},
		},
		{
			SubcontractorID: "s2",
			Availability:    domain.AvailabilityAvailable,
			LicenseStatus:   domain.LicenseStatusValid,
			ZipCodes:        []string{"73301"},
			Specialties:     []domain.Specialty{domain.SpecialtyGutterRepair},
		},
		{
			SubcontractorID: "s3",
			Availability:    domain.AvailabilityAvailable,
			LicenseStatus:   domain.LicenseStatusValid,
			ZipCodes:        []string{"78704"},
			Specialties:     []domain.Specialty{domain.SpecialtyMetalRoofingRepair},
		},
	}
	for _, sub := range subs {
		require.NoError(t, store.UpsertSubcontractor(ctx, sub))
	}

	f := NewFacade(store)

	tests := []struct {
		name      string
		zip       string
		specialty domain.Specialty
		wantIDs   []string
	}{
		{
			name:    "no filters returns every available licensed subcontractor",
			wantIDs: []string{"s1", "s2", "s3"},
		},
		{
			name:    "zip only",
			zip:     "78704",
			wantIDs: []string{"s1", "s3"},
		},
		{
			name:      "specialty only",
			specialty: domain.SpecialtyGutterRepair,
			wantIDs:   []string{"s1", "s2"},
		},
		{
			name:      "zip and specialty",
			zip:       "78704",
			specialty: domain.SpecialtyGutterRepair,
			wantIDs:   []string{"s1"},
		},
		{
			name:      "no matches",
			zip:       "10001",
			specialty: domain.SpecialtyGutterRepair,
			wantIDs:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.BrowseSubcontractors(ctx, tt.zip, tt.specialty)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for i := range got {
				ids = append(ids, got[i].SubcontractorID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
