package model

import (
	"net/mail"
	"strings"
	"time"

	"toy-admin/internal/domain"

	"github.com/google/uuid"
)

// ParentProfile holds the contact details of a parent account.
type ParentProfile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id,omitempty"`
	ParentName        string    `json:"parent_name,omitempty"`
	ParentEmail       string    `json:"parent_email,omitempty"`
	ParentPhoneNumber string    `json:"parent_phone_number,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type ParentProfileUpdate struct {
	ParentName        *string `json:"parent_name,omitempty"`
	ParentEmail       *string `json:"parent_email,omitempty"`
	ParentPhoneNumber *string `json:"parent_phone_number,omitempty"`
}

func NewParentProfile(userID, name, email, phone string) (*ParentProfile, error) {
	p := &ParentProfile{
		ID:                uuid.NewString(),
		UserID:            strings.TrimSpace(userID),
		ParentName:        strings.TrimSpace(name),
		ParentEmail:       strings.TrimSpace(email),
		ParentPhoneNumber: strings.TrimSpace(phone),
		CreatedAt:         time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ParentProfile) Validate() error {
	if p.ParentEmail != "" {
		if _, err := mail.ParseAddress(p.ParentEmail); err != nil {
			return domain.ErrInvalidArgument
		}
	}
	return nil
}

func (p *ParentProfile) Apply(u ParentProfileUpdate) {
	if u.ParentName != nil {
		p.ParentName = strings.TrimSpace(*u.ParentName)
	}
	if u.ParentEmail != nil {
		p.ParentEmail = strings.TrimSpace(*u.ParentEmail)
	}
	if u.ParentPhoneNumber != nil {
		p.ParentPhoneNumber = strings.TrimSpace(*u.ParentPhoneNumber)
	}
}
