package model

import (
	"strings"
	"time"

	"toy-admin/internal/domain"
)

type BugSeverity string

const (
	SeverityLow      BugSeverity = "low"
	SeverityMedium   BugSeverity = "medium"
	SeverityHigh     BugSeverity = "high"
	SeverityCritical BugSeverity = "critical"
)

var severityRank = map[BugSeverity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

func (s BugSeverity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is as severe as other.
func (s BugSeverity) AtLeast(other BugSeverity) bool {
	return severityRank[s] >= severityRank[other]
}

type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in_progress"
	BugResolved   BugStatus = "resolved"
	BugClosed     BugStatus = "closed"
)

func (s BugStatus) Valid() bool {
	switch s {
	case BugOpen, BugInProgress, BugResolved, BugClosed:
		return true
	}
	return false
}

type BugCategory string

const (
	CategoryUI          BugCategory = "UI"
	CategoryPerformance BugCategory = "Performance"
	CategoryCrash       BugCategory = "Crash"
	CategoryLogic       BugCategory = "Logic"
	CategoryOther       BugCategory = "Other"
)

func (c BugCategory) Valid() bool {
	switch c {
	case "", CategoryUI, CategoryPerformance, CategoryCrash, CategoryLogic, CategoryOther:
		return true
	}
	return false
}

// BugReport is a problem reported from the mobile app or by an operator.
type BugReport struct {
	ID               int64       `json:"id"`
	UserID           string      `json:"user_id,omitempty"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	AppVersion       string      `json:"app_version,omitempty"`
	BuildNumber      string      `json:"build_number,omitempty"`
	Platform         string      `json:"platform,omitempty"`
	OSVersion        string      `json:"os_version,omitempty"`
	DeviceModel      string      `json:"device_model,omitempty"`
	AppScreen        string      `json:"app_screen,omitempty"`
	StepsToReproduce string      `json:"steps_to_reproduce,omitempty"`
	Severity         BugSeverity `json:"severity"`
	Status           BugStatus   `json:"status"`
	Category         BugCategory `json:"bug_category,omitempty"`
	ScreenshotURL    string      `json:"screenshot_url,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type BugReportUpdate struct {
	Title            *string      `json:"title,omitempty"`
	Description      *string      `json:"description,omitempty"`
	AppVersion       *string      `json:"app_version,omitempty"`
	BuildNumber      *string      `json:"build_number,omitempty"`
	Platform         *string      `json:"platform,omitempty"`
	OSVersion        *string      `json:"os_version,omitempty"`
	DeviceModel      *string      `json:"device_model,omitempty"`
	AppScreen        *string      `json:"app_screen,omitempty"`
	StepsToReproduce *string      `json:"steps_to_reproduce,omitempty"`
	Severity         *BugSeverity `json:"severity,omitempty"`
	Status           *BugStatus   `json:"status,omitempty"`
	Category         *BugCategory `json:"bug_category,omitempty"`
	ScreenshotURL    *string      `json:"screenshot_url,omitempty"`
}

// NewBugReport fills severity=medium and status=open when unset.
func NewBugReport(title, description string, severity BugSeverity, status BugStatus) (*BugReport, error) {
	if severity == "" {
		severity = SeverityMedium
	}
	if status == "" {
		status = BugOpen
	}
	now := time.Now().UTC()
	b := &BugReport{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Severity:    severity,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BugReport) Validate() error {
	if b.Title == "" || b.Description == "" {
		return domain.ErrInvalidArgument
	}
	if !b.Severity.Valid() || !b.Status.Valid() || !b.Category.Valid() {
		return domain.ErrInvalidArgument
	}
	return nil
}

// Apply copies non-nil fields and bumps UpdatedAt.
func (b *BugReport) Apply(u BugReportUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&b.Title, u.Title)
	set(&b.Description, u.Description)
	set(&b.AppVersion, u.AppVersion)
	set(&b.BuildNumber, u.BuildNumber)
	set(&b.Platform, u.Platform)
	set(&b.OSVersion, u.OSVersion)
	set(&b.DeviceModel, u.DeviceModel)
	set(&b.AppScreen, u.AppScreen)
	set(&b.StepsToReproduce, u.StepsToReproduce)
	set(&b.ScreenshotURL, u.ScreenshotURL)
	if u.Severity != nil {
		b.Severity = *u.Severity
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	b.UpdatedAt = time.Now().UTC()
}
