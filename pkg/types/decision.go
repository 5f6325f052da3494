package types

type Priority string

const (
	PriorityImmediate Priority = "Immediate"
	PriorityHigh      Priority = "High"
	PriorityNormal    Priority = "Normal"
)

type RiskAssessment struct {
	Score  int    `json:"risk_score"`
	Level  Level  `json:"risk_level"`
	Reason string `json:"reason"`
}

type ResponsePlan struct {
	RecommendedAction string   `json:"recommended_action"`
	PriorityLevel     Priority `json:"priority_level"`
	EscalationChain   []string `json:"escalation_chain"`
}

// AuditRecord is the externally visible result of one pipeline run.
type AuditRecord struct {
	FinalDecision   string            `json:"final_decision"`
	RiskLevel       Level             `json:"risk_level"`
	ConfidenceLevel Level             `json:"confidence_level"`
	EscalationChain []string          `json:"escalation_chain"`
	Explanation     string            `json:"explanation"`
	Governance      map[string]string `json:"governance,omitempty"`
}
