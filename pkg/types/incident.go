package types

type IncidentType string

const (
	IncidentFire       IncidentType = "Fire"
	IncidentMedical    IncidentType = "Medical Emergency"
	IncidentHarassment IncidentType = "Harassment"
	IncidentTheft      IncidentType = "Theft"
	IncidentLabHazard  IncidentType = "Lab Hazard"
	IncidentGeneral    IncidentType = "General Incident"
)

// Level is shared by source confidence and assessed risk.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// PolicyKey names an escalation list in the campus incident_policies section.
type PolicyKey string

const (
	PolicyFire       PolicyKey = "fire"
	PolicyHarassment PolicyKey = "harassment"
	PolicyMedical    PolicyKey = "medical"
	PolicyTheft      PolicyKey = "theft"
	PolicyLabHazard  PolicyKey = "lab_hazard"
)

const (
	AnonymousSource = "Anonymous"
	UnknownValue    = "Unknown"
)

// Report is the raw incident payload handed to intake. Empty fields are
// treated as absent.
type Report struct {
	Source      string         `json:"source,omitempty" yaml:"source,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Location    string         `json:"location,omitempty" yaml:"location,omitempty"`
	Anonymous   bool           `json:"anonymous,omitempty" yaml:"anonymous,omitempty"`
	Extra       map[string]any `json:"-" yaml:"-"`
}

// Raw returns the payload as a loosely typed map, the way it arrived.
func (r Report) Raw() map[string]any {
	raw := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		raw[k] = v
	}
	if r.Source != "" {
		raw["source"] = r.Source
	}
	if r.Description != "" {
		raw["description"] = r.Description
	}
	if r.Location != "" {
		raw["location"] = r.Location
	}
	raw["anonymous"] = r.Anonymous
	return raw
}

type IncidentRecord struct {
	IncidentID      string         `json:"incident_id"`
	Timestamp       string         `json:"timestamp"`
	Location        string         `json:"location"`
	IncidentType    IncidentType   `json:"incident_type"`
	Source          string         `json:"source"`
	Description     string         `json:"description"`
	ConfidenceLevel Level          `json:"confidence_level"`
	Anonymous       bool           `json:"anonymous"`
	RawPayload      map[string]any `json:"raw_payload,omitempty"`
}
