package campus

import (
	"github.com/davidahmann/campusguard/pkg/types"
)

// Store holds one loaded campus configuration. It is never mutated after
// Load, so a single Store may be shared by concurrent pipeline runs.
type Store struct {
	path string
	hash string
	cfg  Config
}

// Path is the file the store was loaded from, empty for Parse.
func (s *Store) Path() string { return s.path }

// Hash is the sha256 digest of the raw document bytes.
func (s *Store) Hash() string { return s.hash }

func (s *Store) CampusName() string { return s.cfg.Campus.Name }

func (s *Store) OperatingHours() OperatingHours { return s.cfg.Campus.OperatingHours }

func (s *Store) RiskZones() RiskZones {
	return RiskZones{
		High:   cloneList(s.cfg.RiskZones.High),
		Medium: cloneList(s.cfg.RiskZones.Medium),
		Low:    cloneList(s.cfg.RiskZones.Low),
	}
}

func (s *Store) EmergencyContacts() EmergencyContacts {
	contacts := s.cfg.EmergencyContacts
	contacts.Internal = copyStrings(contacts.Internal)
	contacts.Other = cloneMap(contacts.Other)
	return contacts
}

func (s *Store) IncidentPolicies() map[types.PolicyKey][]string {
	out := make(map[types.PolicyKey][]string, len(s.cfg.IncidentPolicies))
	for key, chain := range s.cfg.IncidentPolicies {
		out[key] = cloneList(chain)
	}
	return out
}

// EscalationChain returns the authorities configured for key, or nil.
func (s *Store) EscalationChain(key types.PolicyKey) []string {
	return cloneList(s.cfg.IncidentPolicies[key])
}

func (s *Store) PrivacyRules() PrivacyRules {
	rules := s.cfg.PrivacyRules
	rules.Extra = cloneMap(rules.Extra)
	return rules
}

func (s *Store) Governance() map[string]string { return copyStrings(s.cfg.Governance) }

// Full returns a deep copy of the whole document. Prefer the narrow accessors.
func (s *Store) Full() Config {
	return Config{
		Campus:            s.cfg.Campus,
		Infrastructure:    cloneMap(s.cfg.Infrastructure),
		RiskZones:         s.RiskZones(),
		EmergencyContacts: s.EmergencyContacts(),
		IncidentPolicies:  s.IncidentPolicies(),
		UserRoles:         cloneValue(s.cfg.UserRoles),
		PrivacyRules:      s.PrivacyRules(),
		Governance:        s.Governance(),
	}
}

func cloneList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container shapes yaml.v3 decodes into.
func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return cloneMap(value)
	case []any:
		if value == nil {
			return value
		}
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]string:
		return copyStrings(value)
	case []string:
		return cloneList(value)
	default:
		return v
	}
}
