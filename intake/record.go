/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package intake

import (
	"encoding/json"
	"fmt"
	"time"
)

// ComplianceStatus is the state of one compliance item.
type ComplianceStatus string

const (
	ComplianceValid   ComplianceStatus = "valid"
	ComplianceExpired ComplianceStatus = "expired"
	ComplianceMissing ComplianceStatus = "missing"
	ComplianceUnknown ComplianceStatus = "unknown"
)

// UnmarshalText rejects unknown compliance statuses.
func (s *ComplianceStatus) UnmarshalText(text []byte) error {
	switch v := ComplianceStatus(text); v {
	case ComplianceValid, ComplianceExpired, ComplianceMissing, ComplianceUnknown:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown compliance status %q", string(text))
	}
}

// OverallStatus summarizes an intake.
type OverallStatus string

const (
	StatusComplete    OverallStatus = "complete"
	StatusIncomplete  OverallStatus = "incomplete"
	StatusNeedsReview OverallStatus = "needs_review"
)

// UnmarshalText rejects unknown overall statuses.
func (s *OverallStatus) UnmarshalText(text []byte) error {
	switch v := OverallStatus(text); v {
	case StatusComplete, StatusIncomplete, StatusNeedsReview:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown overall status %q", string(text))
	}
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	Time time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

const dateLayout = "2006-01-02"

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Time.Format(dateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(dateLayout, string(text))
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", string(text), err)
	}
	d.Time = t
	return nil
}

// ComplianceRecord tracks one certification or check for a caregiver.
type ComplianceRecord struct {
	ItemName       string           `json:"item_name"`
	Status         ComplianceStatus `json:"status"`
	ExpirationDate *Date            `json:"expiration_date"`
	Notes          string           `json:"notes"`
}

// GeoPreferences are the caregiver's geographic preferences and restrictions.
type GeoPreferences struct {
	PreferredZones   []string `json:"preferred_zones"`
	ExcludedZones    []string `json:"excluded_zones"`
	MaxTravelMinutes *int     `json:"max_travel_minutes"`
	HasOwnTransport  bool     `json:"has_own_transport"`
}

// CaregiverProfile is the profile extracted during intake.
type CaregiverProfile struct {
	ID              string             `json:"caregiver_id"`
	FullName        string             `json:"full_name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	YearsExperience int                `json:"years_experience"`
	Specialties     []string           `json:"specialties"`
	Compliance      []ComplianceRecord `json:"compliance"`
	GeoPreferences  GeoPreferences     `json:"geo_preferences"`
}

// IntakeRecord is the structured result of an intake conversation.
type IntakeRecord struct {
	Caregiver           CaregiverProfile `json:"caregiver"`
	ComplianceGaps      []string         `json:"compliance_gaps"`
	RemediationActions  []string         `json:"remediation_actions"`
	GeoConcerns         []string         `json:"geo_concerns"`
	SafeAreaSuggestions []string         `json:"safe_area_suggestions"`
	OverallStatus       OverallStatus    `json:"overall_status"`
}

// UnmarshalJSON decodes a record, defaulting OverallStatus to incomplete.
func (r *IntakeRecord) UnmarshalJSON(data []byte) error {
	type plain IntakeRecord
	aux := (*plain)(r)
	aux.OverallStatus = StatusIncomplete
	return json.Unmarshal(data, aux)
}
