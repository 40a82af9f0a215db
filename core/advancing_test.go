package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAdvancer struct {
	out      Outcome
	didReset bool
	need     bool
}

func (f *fakeAdvancer) rawAdvance(ctx *Context, _ int) Outcome { return f.out }
func (f *fakeAdvancer) needsReset() bool                       { return f.need }
func (f *fakeAdvancer) reset()                                 { f.didReset = true }

func TestAdvanceNonCompletedPassesThrough(t *testing.T) {
	a := &fakeAdvancer{out: outcomeHit(nil), need: true}
	got := advance[int](nil, a, 0)
	assert.Equal(t, Hit, got.Tag)
	assert.False(t, a.didReset)
}

func TestAdvanceCompletedWithoutResetStaysCompleted(t *testing.T) {
	a := &fakeAdvancer{out: outcomeCompleted(nil), need: false}
	got := advance[int](nil, a, 0)
	assert.Equal(t, Completed, got.Tag)
	assert.False(t, a.didReset)
}

func TestAdvanceCompletedWithResetBecomesRestarted(t *testing.T) {
	a := &fakeAdvancer{out: outcomeCompleted(42), need: true}
	got := advance[int](nil, a, 0)
	assert.Equal(t, Restarted, got.Tag)
	assert.True(t, a.didReset)
	assert.Equal(t, 42, got.data)
}
