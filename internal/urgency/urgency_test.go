package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nit-tools/nit/internal/nit/types"
)

func TestDefaultsMatchSpecTable(t *testing.T) {
	c := Defaults()
	assert.Equal(t, 10.0, c.PriorityCritical)
	assert.Equal(t, 6.0, c.PriorityHigh)
	assert.Equal(t, 3.0, c.PriorityMedium)
	assert.Equal(t, 1.0, c.PriorityLow)
	assert.Equal(t, 2.0, c.KindBug)
	assert.Equal(t, 0.0, c.KindFeature)
	assert.Equal(t, 0.0, c.KindTask)
	assert.Equal(t, -2.0, c.KindEpic)
	assert.Equal(t, 8.0, c.Blocking)
	assert.Equal(t, -10.0, c.Blocked)
	assert.Equal(t, 2.0, c.Age)
	assert.Equal(t, 4.0, c.InProgress)
	assert.Equal(t, 1.0, c.HasAcceptance)
	assert.Equal(t, 0.5, c.NotesCount)
}

func TestLoadCoefficientsAppliesOverridesOnly(t *testing.T) {
	stored := map[string]string{
		"urgency.priority.critical": "100",
		"urgency.unknown.key":       "999",
		"urgency.blocked":           "not-a-number",
	}
	c := LoadCoefficients(stored)
	assert.Equal(t, 100.0, c.PriorityCritical)
	assert.Equal(t, Defaults().Blocked, c.Blocked, "malformed override falls back to default")
	assert.Equal(t, Defaults().PriorityHigh, c.PriorityHigh)
}

func TestScoreDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	in := Input{
		Priority:      types.PriorityHigh,
		Kind:          types.KindBug,
		Status:        types.StatusOpen,
		BlocksActive:  true,
		IsBlocked:     false,
		HasAcceptance: true,
		NoteCount:     3,
		CreatedAt:     now.Add(-5 * 24 * time.Hour),
		Now:           now,
	}
	c := Defaults()
	s1 := Score(c, in)
	s2 := Score(c, in)
	require.Equal(t, s1, s2)

	expected := c.PriorityHigh + c.KindBug + c.Blocking + 0 + c.Age*0.5 + 0 + c.HasAcceptance + c.NotesCount*0.5
	assert.InDelta(t, expected, s1, 1e-9)
}

func TestScoreCriticalExceedsNonCriticalBySpecMargin(t *testing.T) {
	stored := map[string]string{"urgency.priority.critical": "100"}
	c := LoadCoefficients(stored)
	now := time.Now()

	critical := Score(c, Input{Priority: types.PriorityCritical, Kind: types.KindTask, CreatedAt: now, Now: now})
	other := Score(c, Input{Priority: types.PriorityHigh, Kind: types.KindTask, CreatedAt: now, Now: now})

	assert.GreaterOrEqual(t, critical-other, 90.0)
}

func TestAgeFactorClampsAtOne(t *testing.T) {
	now := time.Now()
	in := Input{CreatedAt: now.Add(-30 * 24 * time.Hour), Now: now}
	terms := Terms(Defaults(), in)
	for _, term := range terms {
		if term.Term == TermAge {
			assert.Equal(t, 1.0, term.Factor)
		}
	}
}

func TestNotesFactorClampsAtOne(t *testing.T) {
	now := time.Now()
	in := Input{NoteCount: 50, CreatedAt: now, Now: now}
	terms := Terms(Defaults(), in)
	for _, term := range terms {
		if term.Term == TermNotesCount {
			assert.Equal(t, 1.0, term.Factor)
		}
	}
}
