package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseCompound(t *testing.T, line string) *CompoundRule {
	t.Helper()
	r, err := ParseCompoundRule(1, line)
	require.NoError(t, err)
	return r.Rule
}

func TestCompoundRuleAllDrainsInAnyOrder(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseCompound(t, "x: all login share")

	out := rule.Advance(ctx, CompoundInput{Name: "share", Date: epochSentinel})
	assert.Equal(t, Hit, out.Tag)

	out = rule.Advance(ctx, CompoundInput{Name: "login", Date: epochSentinel})
	assert.Equal(t, Completed, out.Tag)
}

func TestCompoundRuleOrderRequiresSequence(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseCompound(t, "x: seq login share")

	out := rule.Advance(ctx, CompoundInput{Name: "share", Date: epochSentinel})
	assert.Equal(t, None, out.Tag)

	out = rule.Advance(ctx, CompoundInput{Name: "login", Date: epochSentinel})
	assert.Equal(t, Hit, out.Tag)

	out = rule.Advance(ctx, CompoundInput{Name: "share", Date: epochSentinel})
	assert.Equal(t, Completed, out.Tag)
}

func TestCompoundRuleEveryGatesCompletion(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseCompound(t, "x: every 2 any login")

	out := rule.Advance(ctx, CompoundInput{Name: "login", Date: epochSentinel})
	assert.Equal(t, Hit, out.Tag)

	out = rule.Advance(ctx, CompoundInput{Name: "login", Date: epochSentinel})
	assert.Equal(t, Completed, out.Tag)
}

func TestCompoundRuleStreakIgnoresName(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseCompound(t, "x: streak 3")

	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d2.AddDate(0, 0, 1)

	out := rule.Advance(ctx, CompoundInput{Name: "anything", Date: d1})
	assert.Equal(t, Hit, out.Tag)
	out = rule.Advance(ctx, CompoundInput{Name: "unrelated", Date: d2})
	assert.Equal(t, Hit, out.Tag)
	out = rule.Advance(ctx, CompoundInput{Name: "irrelevant", Date: d3})
	assert.Equal(t, Completed, out.Tag)
}

func TestCompoundRuleStreakBreaksOnGap(t *testing.T) {
	ctx := NewContext("test")
	rule := mustParseCompound(t, "x: streak 3")

	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	gap := d1.AddDate(0, 0, 5)

	out := rule.Advance(ctx, CompoundInput{Name: "a", Date: d1})
	assert.Equal(t, Hit, out.Tag)
	out = rule.Advance(ctx, CompoundInput{Name: "b", Date: gap})
	assert.Equal(t, Hit, out.Tag)
}
