package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/davidahmann/campusguard/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReportRequest is the dashboard payload. Every field must be present; empty
// strings are accepted and degrade inside the pipeline.
type ReportRequest struct {
	IncidentType *string `json:"incident_type" validate:"required"`
	Description  *string `json:"description" validate:"required"`
	Location     *string `json:"location" validate:"required"`
	UserRole     *string `json:"user_role" validate:"required"`
	Panic        *bool   `json:"panic" validate:"required"`
}

type ReportResponse struct {
	Campus            string         `json:"campus"`
	RiskLevel         types.Level    `json:"risk_level"`
	Confidence        types.Level    `json:"confidence"`
	Decision          string         `json:"decision"`
	EscalationChain   []string       `json:"escalation_chain"`
	Explanation       string         `json:"explanation"`
	EmergencyContacts map[string]any `json:"emergency_contacts"`
	IncidentID        string         `json:"incident_id"`
	DecisionDigest    string         `json:"decision_digest"`
}

func (r ReportRequest) Validate() error {
	return validate.Struct(r)
}

// ComposeDescription prefixes the free text with the selected incident type,
// and with EMERGENCY when the panic button was used.
func ComposeDescription(incidentType, description string, emergency bool) string {
	text := incidentType + ". " + description
	if emergency {
		text = "EMERGENCY. " + text
	}
	return text
}

// Report converts the request into a pipeline payload. Dashboard reports are
// never anonymous.
func (r ReportRequest) Report() types.Report {
	return types.Report{
		Source:      deref(r.UserRole),
		Description: ComposeDescription(deref(r.IncidentType), deref(r.Description), r.Panic != nil && *r.Panic),
		Location:    deref(r.Location),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
