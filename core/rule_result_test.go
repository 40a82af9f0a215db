package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseResult(t *testing.T, line string) *RuleResult {
	t.Helper()
	r, err := ParseRuleResult(1, line)
	require.NoError(t, err)
	return r.Rule
}

func TestResultKindJSONRoundTrip(t *testing.T) {
	for _, k := range []ResultKind{Message, Offer, Open, Restart, Reward} {
		bs, err := k.MarshalJSON()
		require.NoError(t, err)
		var got ResultKind
		require.NoError(t, got.UnmarshalJSON(bs))
		assert.Equal(t, k, got)
	}
}

func TestResultKindUnmarshalRejectsUnknown(t *testing.T) {
	var k ResultKind
	err := k.UnmarshalJSON([]byte(`"bogus"`))
	require.Error(t, err)
	assert.True(t, err.(Problem).IsFatal())
}

func TestRuleResultAllDrainsAndCompletes(t *testing.T) {
	ctx := NewContext("test")
	result := mustParseResult(t, "tacos -> msg all hello world")

	out := result.Advance(ctx)
	assert.Equal(t, Completed, out.Tag)
	fires := out.Fires()
	require.Len(t, fires, 1)
	assert.Equal(t, Message, fires[0].Kind)
	assert.ElementsMatch(t, []string{"hello", "world"}, fires[0].Args)
}

func TestRuleResultOrderDrainsOneGroupAtATime(t *testing.T) {
	ctx := NewContext("test")
	result := mustParseResult(t, "deal -> offer seq a b c d e f")

	out := result.Advance(ctx)
	assert.Equal(t, Hit, out.Tag)
	fires := out.Fires()
	require.Len(t, fires, 1)
	assert.Equal(t, []string{"a", "b", "c"}, fires[0].Args)

	out = result.Advance(ctx)
	assert.Equal(t, Completed, out.Tag)
	fires = out.Fires()
	assert.Equal(t, []string{"d", "e", "f"}, fires[0].Args)
}

func TestRuleResultRepeatBecomesRestarted(t *testing.T) {
	ctx := NewContext("test")
	result := mustParseResult(t, "daily -> repeat msg all hi")
	value := result.Values[0]

	out := value.Advance(ctx)
	assert.Equal(t, Restarted, out.Tag)

	out = value.Advance(ctx)
	assert.Equal(t, Restarted, out.Tag)
}

func TestRuleResultMultiValueCompletesOnlyWhenAllDo(t *testing.T) {
	ctx := NewContext("test")
	result := mustParseResult(t, "combo -> msg seq x y; msg all z")

	out := result.Advance(ctx)
	assert.Equal(t, Hit, out.Tag, "the seq value needs a second call to drain")

	out = result.Advance(ctx)
	assert.Equal(t, Completed, out.Tag)
}
