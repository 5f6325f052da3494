package audit

import (
	"fmt"
	"strings"

	"github.com/davidahmann/campusguard/pkg/types"
)

// Governance exposes the free-form governance section carried into the record.
type Governance interface {
	Governance() map[string]string
}

// Audit composes the final decision record. It copies upstream values as
// given and adds only the explanation text.
func Audit(incident types.IncidentRecord, assessment types.RiskAssessment, plan types.ResponsePlan, policy Governance) types.AuditRecord {
	chain := make([]string, len(plan.EscalationChain))
	copy(chain, plan.EscalationChain)

	return types.AuditRecord{
		FinalDecision:   plan.RecommendedAction,
		RiskLevel:       assessment.Level,
		ConfidenceLevel: incident.ConfidenceLevel,
		EscalationChain: chain,
		Explanation:     Explain(incident, assessment, plan),
		Governance:      policy.Governance(),
	}
}

// Explain renders the fixed explanation sentence.
func Explain(incident types.IncidentRecord, assessment types.RiskAssessment, plan types.ResponsePlan) string {
	return fmt.Sprintf(
		"Incident '%s' was reported at '%s'. "+
			"The system assessed the risk as '%s' based on campus-defined risk zones, operating hours, and input confidence. "+
			"According to university safety policy, the following authorities are responsible for handling this incident: %s. "+
			"Final responsibility and action remain with designated university officials and emergency responders.",
		incident.IncidentType,
		incident.Location,
		assessment.Level,
		strings.Join(plan.EscalationChain, ", "),
	)
}
