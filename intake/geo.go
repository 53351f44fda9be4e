/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package intake

import "fmt"

// RiskLevel classifies a safety zone.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// UnmarshalText rejects unknown risk levels.
func (l *RiskLevel) UnmarshalText(text []byte) error {
	switch v := RiskLevel(text); v {
	case RiskLow, RiskMedium, RiskHigh:
		*l = v
		return nil
	default:
		return fmt.Errorf("unknown risk level %q", string(text))
	}
}

// SafetyZone is a geographic zone with a risk classification.
type SafetyZone struct {
	ID        string    `json:"zone_id"`
	Name      string    `json:"zone_name"`
	RiskLevel RiskLevel `json:"risk_level"`
	Notes     string    `json:"notes"`
}

// SafetyMap is the safety reference an agent consults for a region.
type SafetyMap struct {
	ID          string       `json:"map_id"`
	Region      string       `json:"region"`
	Zones       []SafetyZone `json:"zones"`
	LastUpdated string       `json:"last_updated"`
}

// Zone returns the zone with the given id.
func (m *SafetyMap) Zone(id string) (SafetyZone, bool) {
	for _, z := range m.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return SafetyZone{}, false
}

// PatientDemand summarizes demand in a zone, used when suggesting alternatives.
type PatientDemand struct {
	ZoneID               string  `json:"zone_id"`
	ZoneName             string  `json:"zone_name"`
	DemandLevel          string  `json:"demand_level"`
	EstimatedWeeklyHours float64 `json:"estimated_weekly_hours"`
}
