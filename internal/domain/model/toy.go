package model

import (
	"strings"
	"time"

	"toy-admin/internal/domain"

	"github.com/google/uuid"
)

type RoleType string

const (
	RoleFriend    RoleType = "friend"
	RoleTeacher   RoleType = "teacher"
	RoleParent    RoleType = "parent"
	RoleSibling   RoleType = "sibling"
	RolePet       RoleType = "pet"
	RoleCharacter RoleType = "character"
)

func (r RoleType) Valid() bool {
	switch r {
	case RoleFriend, RoleTeacher, RoleParent, RoleSibling, RolePet, RoleCharacter:
		return true
	}
	return false
}

type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageSpanish  Language = "spanish"
	LanguageFrench   Language = "french"
	LanguageGerman   Language = "german"
	LanguageChinese  Language = "chinese"
	LanguageJapanese Language = "japanese"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman, LanguageChinese, LanguageJapanese:
		return true
	}
	return false
}

type Voice string

const (
	VoiceMale   Voice = "male"
	VoiceFemale Voice = "female"
	VoiceChild  Voice = "child"
	VoiceRobot  Voice = "robot"
	VoiceCustom Voice = "custom"
)

func (v Voice) Valid() bool {
	switch v {
	case VoiceMale, VoiceFemale, VoiceChild, VoiceRobot, VoiceCustom:
		return true
	}
	return false
}

// DefaultDOB is used when a toy profile is created without a date of birth.
var DefaultDOB = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Toy is an activated toy profile bound to a parent account.
type Toy struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"user_id,omitempty"`
	Name                   string    `json:"name"`
	RoleType               RoleType  `json:"role_type"`
	Language               Language  `json:"language"`
	Voice                  Voice     `json:"voice"`
	KidName                string    `json:"kid_name,omitempty"`
	KidAge                 *int      `json:"kid_age,omitempty"`
	DOB                    time.Time `json:"dob"`
	ActivationCode         string    `json:"activation_code,omitempty"`
	ToyMacID               string    `json:"toy_mac_id,omitempty"`
	AdditionalInstructions string    `json:"additional_instructions,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// ToyUpdate is a partial update; nil fields are left untouched.
type ToyUpdate struct {
	UserID                 *string    `json:"user_id,omitempty"`
	Name                   *string    `json:"name,omitempty"`
	RoleType               *RoleType  `json:"role_type,omitempty"`
	Language               *Language  `json:"language,omitempty"`
	Voice                  *Voice     `json:"voice,omitempty"`
	KidName                *string    `json:"kid_name,omitempty"`
	KidAge                 *int       `json:"kid_age,omitempty"`
	DOB                    *time.Time `json:"dob,omitempty"`
	ActivationCode         *string    `json:"activation_code,omitempty"`
	ToyMacID               *string    `json:"toy_mac_id,omitempty"`
	AdditionalInstructions *string    `json:"additional_instructions,omitempty"`
}

// NewToy validates required persona fields and fills defaults.
func NewToy(name string, role RoleType, lang Language, voice Voice) (*Toy, error) {
	name = strings.TrimSpace(name)
	if name == "" || !role.Valid() || !lang.Valid() || !voice.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return &Toy{
		ID:        uuid.NewString(),
		Name:      name,
		RoleType:  role,
		Language:  lang,
		Voice:     voice,
		DOB:       DefaultDOB,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate checks invariants that must hold after an update.
func (t *Toy) Validate() error {
	if strings.TrimSpace(t.Name) == "" || !t.RoleType.Valid() || !t.Language.Valid() || !t.Voice.Valid() {
		return domain.ErrInvalidArgument
	}
	if t.KidAge != nil && (*t.KidAge < 1 || *t.KidAge > 18) {
		return domain.ErrInvalidArgument
	}
	return nil
}

// Apply copies the non-nil fields of u onto t.
func (t *Toy) Apply(u ToyUpdate) {
	if u.UserID != nil {
		t.UserID = *u.UserID
	}
	if u.Name != nil {
		t.Name = strings.TrimSpace(*u.Name)
	}
	if u.RoleType != nil {
		t.RoleType = *u.RoleType
	}
	if u.Language != nil {
		t.Language = *u.Language
	}
	if u.Voice != nil {
		t.Voice = *u.Voice
	}
	if u.KidName != nil {
		t.KidName = *u.KidName
	}
	if u.KidAge != nil {
		age := *u.KidAge
		t.KidAge = &age
	}
	if u.DOB != nil {
		t.DOB = *u.DOB
	}
	if u.ActivationCode != nil {
		t.ActivationCode = *u.ActivationCode
	}
	if u.ToyMacID != nil {
		t.ToyMacID = *u.ToyMacID
	}
	if u.AdditionalInstructions != nil {
		t.AdditionalInstructions = *u.AdditionalInstructions
	}
}
