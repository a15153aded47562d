package domain

import "time"

// Role identifies the acting party on a mutation. Admin and contractor
// actions flow through the same entry points; the role only widens what
// a single call may touch, it never bypasses the invariant checks.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleContractor    Role = "contractor"
	RoleSubcontractor Role = "subcontractor"
)

// PaymentStatus is the billing state of a contractor account.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusActive  PaymentStatus = "active"
	PaymentStatusExpired PaymentStatus = "expired"
)

// Account carries the trial/payment state consulted by the gate before
// job posting and assignment. The billing flow itself is external; the
// core only reads this record.
type Account struct {
	AccountID     string        `db:"account_id" json:"account_id"`
	Name          string        `db:"name" json:"name"`
	Email         string        `db:"email" json:"email"`
	Role          Role          `db:"role" json:"role"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	TrialEndsAt   time.Time     `db:"trial_ends_at" json:"trial_ends_at"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}
