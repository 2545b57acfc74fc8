package model

import (
	"time"
)

// PremiumPlan is the pricing configuration read at activation time. The
// system keeps a small set of rows with at most one active.
type PremiumPlan struct {
	ID           int64     `json:"id" db:"id"`
	PlanName     string    `json:"plan_name" db:"plan_name"`
	Price        int64     `json:"price" db:"price"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PremiumStatus is the read-time projection of an account's entitlement
// window.
type PremiumStatus struct {
	PremiumActive bool       `json:"premium_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
}
