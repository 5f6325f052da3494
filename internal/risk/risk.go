package risk

import (
	"strconv"
	"strings"

	"github.com/davidahmann/campusguard/internal/campus"
	"github.com/davidahmann/campusguard/internal/rules"
	"github.com/davidahmann/campusguard/pkg/types"
)

const (
	OverrideScore  = 9
	OverrideReason = "Critical safety keywords detected requiring immediate action"

	highThreshold   = 7
	mediumThreshold = 4
)

// CriticalKeywords force a High assessment regardless of zone, time or source.
var CriticalKeywords = []string{
	"fire", "smoke", "burn",
	"fainted", "unconscious", "medical", "bleeding",
	"ambulance", "help",
	"following", "stalking", "harassment",
	"attack", "assault",
}

// Policy is the slice of campus configuration contextual scoring reads.
type Policy interface {
	RiskZones() campus.RiskZones
	OperatingHours() campus.OperatingHours
}

// Evaluate scores an incident. A critical keyword in the description
// short-circuits to OverrideScore; otherwise zone, night hours and source
// confidence are summed.
func Evaluate(incident types.IncidentRecord, policy Policy) types.RiskAssessment {
	if rules.ContainsAny(rules.Lower(incident.Description), CriticalKeywords) {
		return types.RiskAssessment{
			Score:  OverrideScore,
			Level:  types.LevelHigh,
			Reason: OverrideReason,
		}
	}

	score := 0
	var reasons []string

	zones := policy.RiskZones()
	switch {
	case rules.MatchesAny(incident.Location, zones.High):
		score += 3
		reasons = append(reasons, "Incident occurred in a high-risk campus zone")
	case rules.MatchesAny(incident.Location, zones.Medium):
		score += 2
		reasons = append(reasons, "Incident occurred in a medium-risk campus zone")
	default:
		score++
		reasons = append(reasons, "Incident occurred in a low-risk campus zone")
	}

	if atNight(incident.Timestamp, policy.OperatingHours()) {
		score += 2
		reasons = append(reasons, "Incident occurred during campus night hours")
	}

	switch incident.ConfidenceLevel {
	case types.LevelHigh:
		score += 2
		reasons = append(reasons, "High confidence incident source")
	case types.LevelMedium:
		score++
		reasons = append(reasons, "Medium confidence incident source")
	}

	return types.RiskAssessment{
		Score:  score,
		Level:  LevelFor(score),
		Reason: strings.Join(reasons, "; "),
	}
}

// LevelFor maps a contextual score to a level. Lower bounds are inclusive.
func LevelFor(score int) types.Level {
	switch {
	case score >= highThreshold:
		return types.LevelHigh
	case score >= mediumThreshold:
		return types.LevelMedium
	default:
		return types.LevelLow
	}
}

// atNight fails open: an unparsable timestamp or night_start never adds score.
func atNight(timestamp string, hours campus.OperatingHours) bool {
	nightStart, err := hours.NightStartHour()
	if err != nil {
		return false
	}
	if len(timestamp) < 13 {
		return false
	}
	hour, err := strconv.Atoi(timestamp[11:13])
	if err != nil {
		return false
	}
	return hour >= nightStart
}
