package campus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davidahmann/campusguard/pkg/types"
)

// Config mirrors the campus policy document. All eight top-level sections are
// required; see RequiredSections.
type Config struct {
	Campus            Campus                       `yaml:"campus" json:"campus"`
	Infrastructure    map[string]any               `yaml:"infrastructure" json:"infrastructure"`
	RiskZones         RiskZones                    `yaml:"risk_zones" json:"risk_zones"`
	EmergencyContacts EmergencyContacts            `yaml:"emergency_contacts" json:"emergency_contacts"`
	IncidentPolicies  map[types.PolicyKey][]string `yaml:"incident_policies" json:"incident_policies"`
	UserRoles         any                          `yaml:"user_roles" json:"user_roles"`
	PrivacyRules      PrivacyRules                 `yaml:"privacy_rules" json:"privacy_rules"`
	Governance        map[string]string            `yaml:"governance" json:"governance"`
}

type Campus struct {
	Name           string         `yaml:"name" json:"name"`
	OperatingHours OperatingHours `yaml:"operating_hours" json:"operating_hours"`
}

type OperatingHours struct {
	NightStart string `yaml:"night_start" json:"night_start" validate:"required,datetime=15:04"`
	DayStart   string `yaml:"day_start" json:"day_start" validate:"omitempty,datetime=15:04"`
}

// NightStartHour returns the hour component of night_start.
func (h OperatingHours) NightStartHour() (int, error) {
	hour, _, _ := strings.Cut(h.NightStart, ":")
	n, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return 0, fmt.Errorf("night_start %q: %w", h.NightStart, err)
	}
	return n, nil
}

// RiskZones lists location substrings per sensitivity tier. Low is
// informational: anything not high or medium scores as low.
type RiskZones struct {
	High   []string `yaml:"high" json:"high"`
	Medium []string `yaml:"medium" json:"medium"`
	Low    []string `yaml:"low,omitempty" json:"low,omitempty"`
}

type EmergencyContacts struct {
	External ExternalContacts  `yaml:"external" json:"external"`
	Internal map[string]string `yaml:"internal,omitempty" json:"internal,omitempty"`
	Other    map[string]any    `yaml:",inline" json:"-"`
}

type ExternalContacts struct {
	Ambulance string `yaml:"ambulance" json:"ambulance"`
	Fire      string `yaml:"fire" json:"fire"`
	Police    string `yaml:"police" json:"police"`
}

// Groups flattens the contacts into the nested mapping returned to callers.
func (c EmergencyContacts) Groups() map[string]any {
	groups := make(map[string]any, len(c.Other)+2)
	groups["external"] = map[string]string{
		"ambulance": c.External.Ambulance,
		"fire":      c.External.Fire,
		"police":    c.External.Police,
	}
	if len(c.Internal) > 0 {
		groups["internal"] = copyStrings(c.Internal)
	}
	for name, group := range c.Other {
		groups[name] = cloneValue(group)
	}
	return groups
}

type PrivacyRules struct {
	AnonymousReporting bool           `yaml:"anonymous_reporting" json:"anonymous_reporting"`
	Extra              map[string]any `yaml:",inline" json:"-"`
}

func copyStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
