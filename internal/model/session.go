package model

import (
	"time"
)

// Session is one usage interval per (device_id, session_id) pair. SessionID
// is a client-generated token; EndTime stays null until the client ends the
// session or the auto-close sweep reconciles it.
type Session struct {
	ID              int64      `json:"id" db:"id"`
	DeviceID        string     `json:"device_id" db:"device_id"`
	SessionID       string     `json:"session_id" db:"session_id"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	SessionDuration int64      `json:"session_duration" db:"session_duration"`
	AutoClosed      bool       `json:"auto_closed" db:"auto_closed"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

func (s *Session) IsOpen() bool {
	return s.EndTime == nil
}
