// Package trial implements the payment/trial gate consulted before
// contractor actions. The billing flow itself is an external concern;
// this gate only reads the account state the billing side maintains.
package trial

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
)

// DefaultTrialPeriod is granted to new contractor accounts at signup.
const DefaultTrialPeriod = 14 * 24 * time.Hour

// Gate decides whether an account may post or assign jobs. An account
// passes while its payment status is active, or while its trial window
// is still running.
type Gate struct {
	store directory.Store
	now   func() time.Time
}

// NewGate creates a gate over the given store.
func NewGate(store directory.Store) *Gate {
	return &Gate{
		store: store,
		now:   time.Now,
	}
}

// NewGateWithClock creates a gate with an injected clock for tests.
func NewGateWithClock(store directory.Store, now func() time.Time) *Gate {
	return &Gate{store: store, now: now}
}

// Allow returns nil when the account may act, domain.ErrAccessDenied
// otherwise. An unknown account is denied rather than reported missing:
// the gate is a precondition, not a lookup API.
func (g *Gate) Allow(ctx context.Context, accountID string) error {
	account, err := g.store.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%w: account %s", domain.ErrAccessDenied, accountID)
	}

	if account.PaymentStatus == domain.PaymentStatusActive {
		return nil
	}

	if g.now().Before(account.TrialEndsAt) {
		return nil
	}

	return fmt.Errorf("%w: account %s trial expired", domain.ErrAccessDenied, accountID)
}

// TrialInfo describes the remaining trial window for an account.
type TrialInfo struct {
	TrialEndsAt   time.Time `json:"trial_ends_at"`
	IsTrialActive bool      `json:"is_trial_active"`
	DaysRemaining int       `json:"days_remaining"`
}

// Info reports the trial state for display. Fails with the store's
// not-found error when the account is missing.
func (g *Gate) Info(ctx context.Context, accountID string) (*TrialInfo, error) {
	account, err := g.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	remaining := account.TrialEndsAt.Sub(g.now())
	info := &TrialInfo{
		TrialEndsAt:   account.TrialEndsAt,
		IsTrialActive: remaining > 0,
	}
	if remaining > 0 {
		// A partial day still counts: one hour left shows as 1 day.
		info.DaysRemaining = int(math.Ceil(remaining.Hours() / 24))
	}
	return info, nil
}
