package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// PaymentIntent is a manually verified premium purchase. The client pays via
// UPI and submits a reference string; an admin approves the intent, which
// activates premium for the device.
type PaymentIntent struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	UserID       int64         `json:"user_id" db:"user_id"`
	DeviceID     string        `json:"device_id" db:"device_id"`
	PlanName     string        `json:"plan_name" db:"plan_name"`
	Amount       int64         `json:"amount" db:"amount"`
	UPIReference *string       `json:"upi_reference,omitempty" db:"upi_reference"`
	Status       PaymentStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers    int64 `json:"total_users" db:"total_users"`
	PremiumUsers  int64 `json:"premium_users" db:"premium_users"`
	TotalCoins    int64 `json:"total_coins" db:"total_coins"`
	SessionsToday int64 `json:"sessions_today" db:"sessions_today"`
	OpenSessions  int64 `json:"open_sessions" db:"open_sessions"`
}
