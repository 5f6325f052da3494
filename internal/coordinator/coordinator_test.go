package coordinator

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidahmann/campusguard/internal/campus"
	"github.com/davidahmann/campusguard/internal/intake"
	"github.com/davidahmann/campusguard/pkg/types"
)

const campusConfig = "../../config/gla_university.json"

func daytimeStage() *intake.Stage {
	return &intake.Stage{
		Now:   func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
		NewID: intake.NewIncidentID,
	}
}

func newTestCoordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()
	opts = append([]Option{WithIntakeStage(daytimeStage())}, opts...)
	c, err := New(campusConfig, opts...)
	require.NoError(t, err)
	return c
}

func TestProcessFireOverride(t *testing.T) {
	c := newTestCoordinator(t)

	result, err := c.Process(types.Report{
		Source:      "Student",
		Description: "Fire reported in chemistry lab",
		Location:    "Chemistry Lab",
		Anonymous:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, types.IncidentFire, result.Incident.IncidentType)
	assert.Equal(t, types.AnonymousSource, result.Incident.Source)
	assert.Equal(t, types.LevelHigh, result.Audit.RiskLevel)
	assert.Equal(t, 9, result.Risk.Score)
	assert.Equal(t, types.LevelLow, result.Audit.ConfidenceLevel)
	assert.Equal(t, "Immediate escalation as per campus safety policy", result.Audit.FinalDecision)
	assert.Equal(t, c.Store().EscalationChain(types.PolicyFire), result.Audit.EscalationChain)
	assert.NotEmpty(t, result.Audit.EscalationChain)
	assert.Equal(t, "GLA University", result.Campus)
	assert.Contains(t, result.EmergencyContacts, "external")
}

func TestProcessBenignReport(t *testing.T) {
	c := newTestCoordinator(t)

	result, err := c.Process(types.Report{
		Source:      "Student",
		Description: "Noise complaint in library",
		Location:    "Library",
	})
	require.NoError(t, err)

	assert.Equal(t, types.IncidentGeneral, result.Incident.IncidentType)
	assert.NotEqual(t, 9, result.Risk.Score)
	assert.Contains(t, []types.Level{types.LevelLow, types.LevelMedium}, result.Audit.RiskLevel)
	assert.Equal(t, types.LevelLow, result.Audit.RiskLevel)
	assert.Empty(t, result.Audit.EscalationChain)
	assert.NotNil(t, result.Audit.EscalationChain)
}

func TestProcessUnmappedHighRiskHasNoChain(t *testing.T) {
	c := newTestCoordinator(t)

	// "help" forces High, but nothing classifies the report.
	result, err := c.Process(types.Report{
		Source:      "Security",
		Description: "Someone shouting for help",
		Location:    "Main Gate",
	})
	require.NoError(t, err)

	assert.Equal(t, types.IncidentGeneral, result.Incident.IncidentType)
	assert.Equal(t, types.LevelHigh, result.Audit.RiskLevel)
	assert.Empty(t, result.Audit.EscalationChain)
}

func TestProcessIsDeterministic(t *testing.T) {
	c := newTestCoordinator(t)

	report := types.Report{Source: "Faculty", Description: "Bike stolen from stand", Location: "Boys Hostel"}
	first, err := c.Process(report)
	require.NoError(t, err)
	second, err := c.Process(report)
	require.NoError(t, err)

	assert.NotEqual(t, first.Incident.IncidentID, second.Incident.IncidentID)
	assert.Equal(t, first.Audit.RiskLevel, second.Audit.RiskLevel)
	assert.Equal(t, first.Audit.FinalDecision, second.Audit.FinalDecision)
	assert.Equal(t, first.Audit.EscalationChain, second.Audit.EscalationChain)
	assert.Equal(t, first.DecisionDigest, second.DecisionDigest)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, first.DecisionDigest)
}

func TestDecisionDigestTracksRiskLevel(t *testing.T) {
	c := newTestCoordinator(t)
	result, err := c.Process(types.Report{Source: "Student", Description: "Wallet theft", Location: "Library"})
	require.NoError(t, err)

	changed := result
	changed.Audit.RiskLevel = types.LevelHigh
	other, err := DecisionDigest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, result.DecisionDigest, other)
}

func TestProcessConcurrentRunsShareConfig(t *testing.T) {
	c := newTestCoordinator(t)
	report := types.Report{Source: "Staff", Description: "Chemical smell in corridor", Location: "Computer Lab"}

	want, err := c.Process(report)
	require.NoError(t, err)

	var wg sync.WaitGroup
	digests := make([]string, 32)
	for i := range digests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := c.Process(report)
			if err == nil {
				digests[i] = result.DecisionDigest
			}
		}(i)
	}
	wg.Wait()

	for _, got := range digests {
		assert.Equal(t, want.DecisionDigest, got)
	}
}

func TestSwapInstallsNewConfig(t *testing.T) {
	var logs bytes.Buffer
	c := newTestCoordinator(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	next, err := campus.Load("../campus/testdata/campus.yaml")
	require.NoError(t, err)
	c.Swap(next)
	c.Swap(nil)

	result, err := c.Process(types.Report{Source: "Student", Description: "Fire alarm", Location: "Dorm", Anonymous: true})
	require.NoError(t, err)

	assert.Equal(t, "Riverside Institute", result.Campus)
	assert.Equal(t, next.Hash(), result.ConfigHash)
	assert.Equal(t, []string{"Facilities", "Fire Department"}, result.Audit.EscalationChain)
	// Riverside does not allow anonymous reports.
	assert.Equal(t, "Student", result.Incident.Source)
	assert.Contains(t, logs.String(), "campus config swapped")
}

func TestNewFailures(t *testing.T) {
	_, err := New("testdata/does-not-exist.json")
	assert.ErrorIs(t, err, campus.ErrConfigNotFound)
}

func TestProcessWithoutConfig(t *testing.T) {
	c := NewFromStore(nil)
	_, err := c.Process(types.Report{})
	assert.ErrorIs(t, err, ErrNoConfig)
}

type recorder struct {
	results []Result
}

func (r *recorder) ObserveDecision(result Result) { r.results = append(r.results, result) }

func TestRecorderSeesEveryDecision(t *testing.T) {
	rec := &recorder{}
	c := newTestCoordinator(t, WithRecorder(rec))

	_, err := c.Process(types.Report{Description: "lost keys"})
	require.NoError(t, err)
	_, err = c.Process(types.Report{Description: "smoke in hallway"})
	require.NoError(t, err)

	require.Len(t, rec.results, 2)
	assert.Equal(t, types.LevelHigh, rec.results[1].Audit.RiskLevel)
}

func TestRunPipeline(t *testing.T) {
	result, err := RunPipeline(campusConfig, "EMERGENCY. Medical. Student fainted", "Academic Block", "Faculty")
	require.NoError(t, err)

	assert.Equal(t, types.IncidentMedical, result.Incident.IncidentType)
	assert.Equal(t, types.LevelHigh, result.Audit.RiskLevel)
	assert.Equal(t, types.LevelMedium, result.Audit.ConfidenceLevel)
	assert.False(t, result.Incident.Anonymous)
}
