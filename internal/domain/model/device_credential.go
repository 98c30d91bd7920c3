package model

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"toy-admin/internal/domain"
)

const (
	// ActivationCodeMin and ActivationCodeMax bound the 6-digit code space.
	ActivationCodeMin = 100000
	ActivationCodeMax = 999999
	// ActivationCodeSpace is the number of distinct codes.
	ActivationCodeSpace = ActivationCodeMax - ActivationCodeMin + 1

	maxMacIDLen = 64
)

var activationCodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// DeviceCredential is the network identity of a physical toy (mqtt_auth row).
type DeviceCredential struct {
	MacID          string    `json:"mac_id"`
	SecretHash     string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	ActivationCode string    `json:"activation_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DeviceCredentialUpdate carries the operator-editable fields. Nil means unchanged.
type DeviceCredentialUpdate struct {
	IsActive         *bool   `json:"is_active,omitempty"`
	ActivationCode   *string `json:"activation_code,omitempty"`
	RegenerateCode   bool    `json:"regenerate_code,omitempty"`
	RegenerateSecret bool    `json:"regenerate_secret,omitempty"`
}

// NormalizeMacID is the stored form of a MAC id. Lookups must apply it too.
func NormalizeMacID(macID string) string {
	return strings.ToUpper(strings.TrimSpace(macID))
}

// NewDeviceCredential validates the MAC id, generating one when empty.
func NewDeviceCredential(macID string) (*DeviceCredential, error) {
	macID = NormalizeMacID(macID)
	if macID == "" {
		generated, err := GenerateMacID()
		if err != nil {
			return nil, err
		}
		macID = generated
	}
	if len(macID) > maxMacIDLen {
		return nil, domain.ErrInvalidArgument
	}
	return &DeviceCredential{
		MacID:     macID,
		IsActive:  false,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GenerateMacID returns a random hardware address like "3A:F0:11:9C:00:7B".
func GenerateMacID() (string, error) {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	parts := make([]string, len(b))
	for i := range b {
		parts[i] = strings.ToUpper(hex.EncodeToString(b[i : i+1]))
	}
	return strings.Join(parts, ":"), nil
}

// ValidActivationCode reports whether s is a 6-digit code without a leading zero.
func ValidActivationCode(s string) bool {
	return activationCodeRe.MatchString(s)
}

func (d *DeviceCredential) IsZero() bool { return d == nil || d.MacID == "" }
