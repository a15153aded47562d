package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kontraq/kontraq-be/internal/domain"
)

// MemoryStore is an in-process Store backed by maps. It preserves insertion
// order on lists, which the eligibility filter relies on. Used for tests and
// demo mode; production runs on PostgresStore.
type MemoryStore struct {
	mu sync.RWMutex

	jobs     map[string]domain.Job
	jobOrder []string

	subs     map[string]domain.Subcontractor
	subOrder []string

	accounts map[string]domain.Account
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:     make(map[string]domain.Job),
		subs:     make(map[string]domain.Subcontractor),
		accounts: make(map[string]domain.Account),
	}
}

func (s *MemoryStore) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	out := job
	return &out, nil
}

func (s *MemoryStore) ListJobs(_ context.Context, filter JobFilter) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.Job, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		job := s.jobs[id]
		if filter.Match(&job) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *MemoryStore) UpsertJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[job.JobID]
	if ok {
		if existing.Version != job.Version {
			return fmt.Errorf("%w: job %s version %d", domain.ErrConcurrentModification, job.JobID, job.Version)
		}
	} else {
		s.jobOrder = append(s.jobOrder, job.JobID)
	}

	job.Version++
	s.jobs[job.JobID] = *job
	return nil
}

func (s *MemoryStore) GetSubcontractor(_ context.Context, subID string) (*domain.Subcontractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[subID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSubcontractorNotFound, subID)
	}
	out := cloneSubcontractor(sub)
	return &out, nil
}

func (s *MemoryStore) ListSubcontractors(_ context.Context) ([]domain.Subcontractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]domain.Subcontractor, 0, len(s.subOrder))
	for _, id := range s.subOrder {
		subs = append(subs, cloneSubcontractor(s.subs[id]))
	}
	return subs, nil
}

func (s *MemoryStore) UpsertSubcontractor(_ context.Context, sub *domain.Subcontractor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.SubcontractorID]; !ok {
		s.subOrder = append(s.subOrder, sub.SubcontractorID)
	}
	s.subs[sub.SubcontractorID] = cloneSubcontractor(*sub)
	return nil
}

func (s *MemoryStore) GetAccount(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	out := account
	return &out, nil
}

func (s *MemoryStore) UpsertAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.AccountID] = *account
	return nil
}

// cloneSubcontractor deep-copies the slice fields so callers cannot mutate
// stored state through a returned value.
func cloneSubcontractor(sub domain.Subcontractor) domain.Subcontractor {
	out := sub
	out.ZipCodes = append([]string(nil), sub.ZipCodes...)
	out.Specialties = append([]domain.Specialty(nil), sub.Specialties...)
	return out
}
