package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseSimple(t *testing.T, line string) *SimpleRule {
	t.Helper()
	r, err := ParseSimpleRule(1, line)
	require.NoError(t, err)
	return r.Rule
}

func TestSimpleRuleExactMatchCompletes(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: player 1")

	out := rule.Advance(ctx, NewEvent(map[string]PartValue{
		PartPlayer: NumberPartValue(1),
	}))
	assert.Equal(t, Completed, out.Tag)
}

func TestSimpleRuleMismatchIsNone(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: player 1")

	out := rule.Advance(ctx, NewEvent(map[string]PartValue{
		PartPlayer: NumberPartValue(2),
	}))
	assert.Equal(t, None, out.Tag)
}

// TestSimpleRuleGreaterEqMatchesStrictlyGreater pins down the
// documented original_source quirk: GreaterEq behaves like Greater.
func TestSimpleRuleGreaterEqMatchesStrictlyGreater(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: achieving >=5")

	out := rule.Advance(ctx, NewEvent(map[string]PartValue{
		PartAchieving: NumberPartValue(5),
	}))
	assert.Equal(t, None, out.Tag, "5 should NOT match >=5 per the preserved original_source bug")

	rule = mustParseSimple(t, "x: achieving >=5")
	out = rule.Advance(ctx, NewEvent(map[string]PartValue{
		PartAchieving: NumberPartValue(6),
	}))
	assert.Equal(t, Completed, out.Tag)
}

func TestSimpleRuleVacuousPartsAreIgnored(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: player 1")

	out := rule.Advance(ctx, NewEvent(map[string]PartValue{
		PartPlayer: NumberPartValue(1),
		PartWith:   NumberPartValue(999),
	}))
	assert.Equal(t, Completed, out.Tag)
}

func TestSimpleRuleRepeatCyclesToRestarted(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: player 1 repeat 2")

	event := NewEvent(map[string]PartValue{PartPlayer: NumberPartValue(1)})

	first := rule.Advance(ctx, event)
	assert.Equal(t, Restarted, first.Tag)

	second := rule.Advance(ctx, event)
	assert.Equal(t, Completed, second.Tag)
}

func TestSimpleRuleAllSeqDrainsAndHits(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseSimple(t, "x: achieving all(1,2)")

	event1 := NewEvent(map[string]PartValue{PartAchieving: NumberPartValue(1)})
	out := rule.Advance(ctx, event1)
	assert.Equal(t, Hit, out.Tag)

	event2 := NewEvent(map[string]PartValue{PartAchieving: NumberPartValue(2)})
	out = rule.Advance(ctx, event2)
	assert.Equal(t, Completed, out.Tag)
}
