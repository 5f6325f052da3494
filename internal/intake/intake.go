package intake

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidahmann/campusguard/internal/campus"
	"github.com/davidahmann/campusguard/internal/rules"
	"github.com/davidahmann/campusguard/pkg/types"
)

// TimestampLayout is ISO-8601 in UTC without a zone suffix. Risk scoring
// reads the hour from characters 11-12.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Classification is checked top to bottom; a report mentioning both fire and
// an injury is a Fire.
var Classification = rules.List[types.IncidentType]{
	{Keywords: []string{"fire", "smoke", "burn"}, Result: types.IncidentFire},
	{Keywords: []string{"medical", "fainted", "injured"}, Result: types.IncidentMedical},
	{Keywords: []string{"follow", "harass", "stalk"}, Result: types.IncidentHarassment},
	{Keywords: []string{"theft", "stolen"}, Result: types.IncidentTheft},
	{Keywords: []string{"lab", "chemical"}, Result: types.IncidentLabHazard},
}

// Privacy is the slice of campus policy intake depends on.
type Privacy interface {
	PrivacyRules() campus.PrivacyRules
}

// Stage turns raw reports into incident records.
type Stage struct {
	Now   func() time.Time
	NewID func() string
}

// NewStage returns a Stage using the wall clock and random incident ids.
func NewStage() *Stage {
	return &Stage{Now: time.Now, NewID: NewIncidentID}
}

// Handle normalizes a report with a default Stage.
func Handle(report types.Report, policy Privacy) types.IncidentRecord {
	return NewStage().Handle(report, policy)
}

// Handle never rejects a report: missing fields fall back to placeholders.
func (s *Stage) Handle(report types.Report, policy Privacy) types.IncidentRecord {
	anonymous := report.Anonymous && policy.PrivacyRules().AnonymousReporting

	source := firstNonEmpty(report.Source, types.UnknownValue)
	if anonymous {
		source = types.AnonymousSource
	}

	return types.IncidentRecord{
		IncidentID:      s.newID(),
		Timestamp:       s.now().UTC().Format(TimestampLayout),
		Location:        firstNonEmpty(report.Location, types.UnknownValue),
		IncidentType:    Classify(report.Description),
		Source:          source,
		Description:     report.Description,
		ConfidenceLevel: Confidence(report.Source),
		Anonymous:       anonymous,
		RawPayload:      report.Raw(),
	}
}

// Classify maps a free-text description to an incident type.
func Classify(description string) types.IncidentType {
	if incidentType, ok := Classification.First(description); ok {
		return incidentType
	}
	return types.IncidentGeneral
}

// Confidence grades the reporting role. Unrecognised roles are Low.
func Confidence(source string) types.Level {
	switch rules.Lower(source) {
	case "security":
		return types.LevelHigh
	case "faculty", "staff":
		return types.LevelMedium
	case "student", "anonymous":
		return types.LevelLow
	default:
		return types.LevelLow
	}
}

// NewIncidentID returns an id of the form INC_1A2B3C4D.
func NewIncidentID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INC_" + strings.ToUpper(hex[:8])
}

func (s *Stage) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Stage) newID() string {
	if s.NewID == nil {
		return NewIncidentID()
	}
	return s.NewID()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
