package campus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/davidahmann/campusguard/internal/digest"
	"github.com/davidahmann/campusguard/pkg/types"
)

func TestLoadJSON(t *testing.T) {
	store, err := Load("testdata/campus.json")
	require.NoError(t, err)

	assert.Equal(t, "GLA University", store.CampusName())
	assert.Equal(t, "20:00", store.OperatingHours().NightStart)
	assert.Equal(t, "testdata/campus.json", store.Path())
	assert.True(t, store.PrivacyRules().AnonymousReporting)
	assert.Equal(t, []string{"Campus Security", "Fire Safety Officer", "Fire Brigade"}, store.EscalationChain(types.PolicyFire))
	assert.Equal(t, "108", store.EmergencyContacts().External.Ambulance)
	assert.Equal(t, "Chief Proctor", store.Governance()["final_authority"])

	data, err := os.ReadFile("testdata/campus.json")
	require.NoError(t, err)
	assert.Equal(t, digest.Sum(data), store.Hash())
}

func TestLoadYAML(t *testing.T) {
	store, err := Load("testdata/campus.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Riverside Institute", store.CampusName())
	hour, err := store.OperatingHours().NightStartHour()
	require.NoError(t, err)
	assert.Equal(t, 21, hour)
	assert.False(t, store.PrivacyRules().AnonymousReporting)
	assert.Nil(t, store.EscalationChain(types.PolicyMedical))

	groups := store.EmergencyContacts().Groups()
	assert.Contains(t, groups, "external")
	assert.Contains(t, groups, "hotlines")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.NotErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadMissingEachSection(t *testing.T) {
	data, err := os.ReadFile("testdata/campus.json")
	require.NoError(t, err)

	for _, section := range RequiredSections {
		t.Run(section, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, yaml.Unmarshal(data, &doc))
			delete(doc, section)

			out, err := yaml.Marshal(doc)
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "campus.yaml")
			require.NoError(t, os.WriteFile(path, out, 0o600))

			_, err = Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigInvalid)

			var missing *MissingSectionError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, section, missing.Section)
			assert.Contains(t, err.Error(), section)
		})
	}
}

func TestParseRejectsMalformedNightStart(t *testing.T) {
	doc := strings.Replace(validYAML, `night_start: "22:00"`, `night_start: "late"`, 1)
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestParseRejectsShapeMismatch(t *testing.T) {
	doc := strings.Replace(validYAML, "fire: [Security]", "fire: {first: Security}", 1)
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("campus: [unterminated"))
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestParseKeepsDollarTextVerbatim(t *testing.T) {
	t.Setenv("SECURITY_DESK", "Night Desk")
	doc := strings.Replace(validYAML, "fire: [Security]", `fire: ["$SECURITY_DESK", Security]`, 1)
	doc = strings.Replace(doc, "owner: Dean", "owner: Dean\n  penalty: \"Fine of $50 for false reports\"", 1)

	store, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"$SECURITY_DESK", "Security"}, store.EscalationChain(types.PolicyFire))
	assert.Equal(t, "Fine of $50 for false reports", store.Governance()["penalty"])
	assert.Equal(t, digest.Sum([]byte(doc)), store.Hash())
	assert.Empty(t, store.Path())
}

func TestAccessorsReturnCopies(t *testing.T) {
	store, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	chain := store.EscalationChain(types.PolicyFire)
	chain[0] = "Nobody"
	zones := store.RiskZones()
	zones.High[0] = "Nowhere"
	gov := store.Governance()
	gov["owner"] = "Mallory"
	policies := store.IncidentPolicies()
	policies[types.PolicyFire][0] = "Nobody"

	assert.Equal(t, []string{"Security"}, store.EscalationChain(types.PolicyFire))
	assert.Equal(t, "Hostel", store.RiskZones().High[0])
	assert.Equal(t, "Dean", store.Governance()["owner"])
}

func TestFullAndGroupsReturnDeepCopies(t *testing.T) {
	store, err := Load("testdata/campus.yaml")
	require.NoError(t, err)

	full := store.Full()
	full.IncidentPolicies[types.PolicyFire][0] = "Nobody"
	full.RiskZones.High[0] = "Nowhere"
	full.Governance["owner"] = "Mallory"
	full.UserRoles.(map[string]any)["student"] = "High"
	full.EmergencyContacts.Other["hotlines"].(map[string]any)["counselling"] = "000"

	groups := store.EmergencyContacts().Groups()
	groups["hotlines"].(map[string]any)["counselling"] = "111"

	again := store.Full()
	assert.Equal(t, []string{"Facilities", "Fire Department"}, again.IncidentPolicies[types.PolicyFire])
	assert.Equal(t, "Reactor Hall", again.RiskZones.High[0])
	assert.Equal(t, "Office of Risk Management", again.Governance["owner"])
	assert.Equal(t, "Low", again.UserRoles.(map[string]any)["student"])
	assert.Equal(t, "555-0100", store.EmergencyContacts().Groups()["hotlines"].(map[string]any)["counselling"])
}

func TestMissingSectionErrorMessage(t *testing.T) {
	err := &MissingSectionError{Section: "governance"}
	assert.Equal(t, "missing required config section: governance", err.Error())
	assert.ErrorIs(t, err, ErrConfigInvalid)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}

const validYAML = `
campus:
  name: Test Campus
  operating_hours:
    night_start: "22:00"
    day_start: "06:00"
infrastructure: {}
risk_zones:
  high: [Hostel]
  medium: [Library]
emergency_contacts:
  external:
    ambulance: "108"
    fire: "101"
    police: "112"
incident_policies:
  fire: [Security]
user_roles: []
privacy_rules:
  anonymous_reporting: true
governance:
  owner: Dean
`
