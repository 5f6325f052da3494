package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstMatchWins(t *testing.T) {
	list := List[string]{
		{Keywords: []string{"fire", "smoke"}, Result: "fire"},
		{Keywords: []string{"injured"}, Result: "medical"},
	}

	got, ok := list.First("Student INJURED while escaping SMOKE")
	assert.True(t, ok)
	assert.Equal(t, "fire", got)

	got, ok = list.First("someone injured on stairs")
	assert.True(t, ok)
	assert.Equal(t, "medical", got)

	got, ok = list.First("noise complaint")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestContainsAnySkipsEmptyKeywords(t *testing.T) {
	assert.False(t, ContainsAny("anything", []string{""}))
	assert.True(t, ContainsAny("lab coat", []string{"", "lab"}))
}

func TestMatchesAnyFoldsBothSides(t *testing.T) {
	assert.True(t, MatchesAny("Near the GIRLS HOSTEL gate", []string{"Girls Hostel"}))
	assert.False(t, MatchesAny("Library", []string{"Hostel", ""}))
	assert.False(t, MatchesAny("Library", nil))
}

func TestLower(t *testing.T) {
	assert.Equal(t, "emergency. fire.", Lower("EMERGENCY. Fire."))
}
