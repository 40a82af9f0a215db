package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRulesDispatchesByShape(t *testing.T) {
	lines := []string{
		"login: player 1",
		"combo: any login",
		"login -> msg all hi",
		"",
		"   ",
		"garbage line with no shape",
	}
	out := ParseRules(lines)
	assert.Len(t, out.Simple, 1)
	assert.Len(t, out.Compound, 1)
	assert.Len(t, out.Results, 1)
	assert.Len(t, out.Errors, 1)
	assert.Equal(t, NoMatch, out.Errors[0].Kind)
}

func TestParseRulesBadLineDoesNotAbortBatch(t *testing.T) {
	lines := []string{
		"bad: unknownkeyword 1",
		"login: player 1",
	}
	out := ParseRules(lines)
	assert.Len(t, out.Errors, 1)
	assert.Len(t, out.Simple, 1)
}

func TestParseCacheMemoizesIdenticalBatches(t *testing.T) {
	cache := NewParseCache(10, time.Hour)
	lines := []string{"login: player 1"}
	text := "login: player 1"

	first := cache.Parse(text, lines)
	second := cache.Parse(text, lines)
	assert.Equal(t, first.Simple[0].Name, second.Simple[0].Name)
}
