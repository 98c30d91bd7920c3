package model

import "time"

// LoginHistory is one login session recorded by the mobile app.
type LoginHistory struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"user_id"`
	DeviceInfo        string     `json:"device_info,omitempty"`
	DeviceFingerprint string     `json:"device_fingerprint,omitempty"`
	IPAddress         string     `json:"ip_address,omitempty"`
	Location          string     `json:"location,omitempty"`
	LoginMethod       string     `json:"login_method,omitempty"`
	LoginTime         time.Time  `json:"login_time"`
	LogoutTime        *time.Time `json:"logout_time,omitempty"`
	SessionDuration   string     `json:"session_duration,omitempty"`
	IsSuspicious      bool       `json:"is_suspicious"`
}
