package coordinator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/davidahmann/campusguard/internal/audit"
	"github.com/davidahmann/campusguard/internal/campus"
	"github.com/davidahmann/campusguard/internal/digest"
	"github.com/davidahmann/campusguard/internal/intake"
	"github.com/davidahmann/campusguard/internal/response"
	"github.com/davidahmann/campusguard/internal/risk"
	"github.com/davidahmann/campusguard/pkg/types"
)

// DefaultConfigPath is used when no campus config path is given.
const DefaultConfigPath = "config/gla_university.json"

var ErrNoConfig = errors.New("coordinator has no campus configuration")

// Recorder observes completed decisions.
type Recorder interface {
	ObserveDecision(result Result)
}

// Result is one pipeline run plus the campus lookups callers render.
type Result struct {
	Audit             types.AuditRecord    `json:"final"`
	Campus            string               `json:"campus"`
	EmergencyContacts map[string]any       `json:"emergency_contacts"`
	Incident          types.IncidentRecord `json:"incident"`
	Risk              types.RiskAssessment `json:"risk"`
	Response          types.ResponsePlan   `json:"response"`
	ConfigHash        string               `json:"config_hash"`
	DecisionDigest    string               `json:"decision_digest"`
}

// Coordinator runs Intake, Risk, Response and Audit in order for one incident
// at a time. It holds no per-incident state and is safe for concurrent use.
type Coordinator struct {
	store    atomic.Pointer[campus.Store]
	intake   *intake.Stage
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Coordinator) { c.recorder = recorder }
}

// WithIntakeStage replaces the intake stage, typically to pin the clock.
func WithIntakeStage(stage *intake.Stage) Option {
	return func(c *Coordinator) {
		if stage != nil {
			c.intake = stage
		}
	}
}

// New loads the campus configuration at path. Load failures are returned
// as-is so callers can match campus.ErrConfigNotFound / ErrConfigInvalid.
func New(path string, opts ...Option) (*Coordinator, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	store, err := campus.Load(path)
	if err != nil {
		return nil, err
	}
	return NewFromStore(store, opts...), nil
}

func NewFromStore(store *campus.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		intake: intake.NewStage(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.store.Store(store)
	return c
}

// Store returns the configuration currently in effect.
func (c *Coordinator) Store() *campus.Store {
	return c.store.Load()
}

// Swap installs a new configuration. Runs already in progress finish with the
// configuration they started with.
func (c *Coordinator) Swap(store *campus.Store) {
	if store == nil {
		return
	}
	previous := c.store.Swap(store)
	if previous != nil {
		c.logger.Info("campus config swapped",
			"campus", store.CampusName(),
			"previous_hash", previous.Hash(),
			"config_hash", store.Hash(),
		)
	}
}

// Process runs the pipeline for one report.
func (c *Coordinator) Process(report types.Report) (Result, error) {
	store := c.store.Load()
	if store == nil {
		return Result{}, ErrNoConfig
	}

	incident := c.intake.Handle(report, store)
	assessment := risk.Evaluate(incident, store)
	plan := response.Plan(incident, assessment, store)
	record := audit.Audit(incident, assessment, plan, store)

	result := Result{
		Audit:             record,
		Campus:            store.CampusName(),
		EmergencyContacts: store.EmergencyContacts().Groups(),
		Incident:          incident,
		Risk:              assessment,
		Response:          plan,
		ConfigHash:        store.Hash(),
	}

	decisionDigest, err := DecisionDigest(result)
	if err != nil {
		return Result{}, fmt.Errorf("digest decision %s: %w", incident.IncidentID, err)
	}
	result.DecisionDigest = decisionDigest

	c.logger.Debug("incident processed",
		"incident_id", incident.IncidentID,
		"incident_type", incident.IncidentType,
		"risk_level", assessment.Level,
		"risk_score", assessment.Score,
		"priority", plan.PriorityLevel,
		"escalation_chain_len", len(plan.EscalationChain),
	)
	if c.recorder != nil {
		c.recorder.ObserveDecision(result)
	}
	return result, nil
}

// DecisionDigest hashes the fields of a result that are fully determined by
// the report and configuration. Incident id and timestamp are excluded.
func DecisionDigest(result Result) (string, error) {
	view := map[string]any{
		"config_hash":        result.ConfigHash,
		"incident_type":      string(result.Incident.IncidentType),
		"location":           result.Incident.Location,
		"source":             result.Incident.Source,
		"risk_score":         result.Risk.Score,
		"risk_level":         string(result.Audit.RiskLevel),
		"confidence_level":   string(result.Audit.ConfidenceLevel),
		"recommended_action": result.Audit.FinalDecision,
		"priority_level":     string(result.Response.PriorityLevel),
		"escalation_chain":   result.Audit.EscalationChain,
	}
	return digest.Of(view)
}

// RunPipeline loads the configuration at configPath and evaluates a single
// named report. The report is never anonymous.
func RunPipeline(configPath, incidentText, location, userRole string) (Result, error) {
	c, err := New(configPath)
	if err != nil {
		return Result{}, err
	}
	return c.Process(types.Report{
		Source:      userRole,
		Description: incidentText,
		Location:    location,
	})
}
