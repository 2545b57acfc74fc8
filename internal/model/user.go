package model

import (
	"time"
)

// User is one account per device installation. DeviceID is the external key
// and is immutable after creation.
type User struct {
	ID                   int64      `json:"id" db:"id"`
	DeviceID             string     `json:"device_id" db:"device_id"`
	Name                 *string    `json:"name,omitempty" db:"name"`
	Phone                *string    `json:"phone,omitempty" db:"phone"`
	Coins                int64      `json:"coins" db:"coins"`
	ReferralCode         string     `json:"referral_code" db:"referral_code"`
	ReferredBy           *string    `json:"referred_by,omitempty" db:"referred_by"`
	HasReviewed          bool       `json:"has_reviewed" db:"has_reviewed"`
	ShareCount           int64      `json:"share_count" db:"share_count"`
	AppOpens             int64      `json:"app_opens" db:"app_opens"`
	TotalSessionDuration int64      `json:"total_session_duration" db:"total_session_duration"`
	AvgSessionDuration   int64      `json:"avg_session_duration" db:"avg_session_duration"`
	LastActive           time.Time  `json:"last_active" db:"last_active"`
	IsPremium            bool       `json:"is_premium" db:"is_premium"`
	PremiumPurchasedAt   *time.Time `json:"premium_purchased_at,omitempty" db:"premium_purchased_at"`
	PremiumExpiresAt     *time.Time `json:"premium_expires_at,omitempty" db:"premium_expires_at"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// PremiumActive evaluates the entitlement window lazily at read time; expired
// accounts are never swept.
func (u *User) PremiumActive() bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt != nil && time.Now().Before(*u.PremiumExpiresAt)
}

func (u *User) PremiumDaysRemaining() int {
	if !u.PremiumActive() {
		return 0
	}
	duration := time.Until(*u.PremiumExpiresAt)
	if duration < 0 {
		return 0
	}
	return int(duration.Hours() / 24)
}
