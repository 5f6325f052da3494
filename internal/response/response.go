package response

import (
	"github.com/davidahmann/campusguard/internal/rules"
	"github.com/davidahmann/campusguard/pkg/types"
)

const (
	ActionImmediate = "Immediate escalation as per campus safety policy"
	ActionNotify    = "Notify responsible authorities and monitor"
	ActionLog       = "Log incident and monitor as per policy"
)

// policyKeys maps an incident type name to its incident_policies key. Order
// matters: the first rule whose fragment appears in the type name wins.
var policyKeys = rules.List[types.PolicyKey]{
	{Keywords: []string{"fire"}, Result: types.PolicyFire},
	{Keywords: []string{"harass"}, Result: types.PolicyHarassment},
	{Keywords: []string{"medical"}, Result: types.PolicyMedical},
	{Keywords: []string{"unauthorized", "theft"}, Result: types.PolicyTheft},
	{Keywords: []string{"lab"}, Result: types.PolicyLabHazard},
}

// Policies resolves escalation chains from campus configuration.
type Policies interface {
	EscalationChain(key types.PolicyKey) []string
}

// Plan derives the recommended action and escalation chain. Priority follows
// the risk level alone; the chain follows the incident type alone.
//
// An incident without a policy key (General Incident) gets an empty chain at
// every risk level, High included.
func Plan(incident types.IncidentRecord, assessment types.RiskAssessment, policies Policies) types.ResponsePlan {
	chain := []string{}
	if key, ok := PolicyKeyFor(incident.IncidentType); ok {
		if configured := policies.EscalationChain(key); configured != nil {
			chain = configured
		}
	}

	action, priority := ActionFor(assessment.Level)
	return types.ResponsePlan{
		RecommendedAction: action,
		PriorityLevel:     priority,
		EscalationChain:   chain,
	}
}

// PolicyKeyFor reports the policy key for an incident type, if any.
func PolicyKeyFor(incidentType types.IncidentType) (types.PolicyKey, bool) {
	return policyKeys.First(string(incidentType))
}

// ActionFor maps a risk level to its recommended action and priority.
func ActionFor(level types.Level) (string, types.Priority) {
	switch level {
	case types.LevelHigh:
		return ActionImmediate, types.PriorityImmediate
	case types.LevelMedium:
		return ActionNotify, types.PriorityHigh
	default:
		return ActionLog, types.PriorityNormal
	}
}
