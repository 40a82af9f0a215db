package core

import (
	"encoding/json"
	"fmt"
)

// ResultKind enumerates the rule-result value flavors (spec.md §3).
// Their argument-group sizes differ: Offer takes 3 arguments per
// group, Reward takes 2, everything else takes 1.
type ResultKind int

const (
	Message ResultKind = iota
	Offer
	Open
	Restart
	Reward
)

func (k ResultKind) String() string {
	switch k {
	case Message:
		return "message"
	case Offer:
		return "offer"
	case Open:
		return "open"
	case Restart:
		return "restart"
	case Reward:
		return "reward"
	default:
		return "unknown"
	}
}

// MarshalJSON renders a ResultKind by name, so hosts consuming
// State.Update's outcome list over JSON see "restart", not 3.
func (k ResultKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON is MarshalJSON's inverse, so a ResultKind round-trips
// through state_save/state_load (spec.md §8's Round-trip property)
// even though the wire form is a name, not the underlying int.
func (k *ResultKind) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	for _, candidate := range []ResultKind{Message, Offer, Open, Restart, Reward} {
		if candidate.String() == s {
			*k = candidate
			return nil
		}
	}
	return NewStateDecodeError(fmt.Errorf("unknown result kind %q", s))
}

func (k ResultKind) GroupSize() int {
	switch k {
	case Offer:
		return 3
	case Reward:
		return 2
	default:
		return 1
	}
}

// ResultSeqKind is how a ResultValue consumes its flat argument list
// (spec.md §3).
type ResultSeqKind int

const (
	ResultAll ResultSeqKind = iota
	ResultOrder
	ResultRandom
	ResultRandomOnce
	ResultChoice
)

// ResultValue is one (kind, seq, args) entry within a RuleResult.
// Values is flat and its length is always a multiple of Kind.GroupSize()
// (validated at parse time, see core/parser_result.go). Each value
// resets and completes independently: this is where iterations and
// needs_reset actually live, not on the owning RuleResult.
type ResultValue struct {
	Iterations int32
	Kind       ResultKind
	Seq        ResultSeqKind
	Values     []string
	OgValues   []string
}

func (v *ResultValue) needsReset() bool {
	return v.Iterations == -1
}

func (v *ResultValue) reset() {
	v.Values = append([]string{}, v.OgValues...)
}

// resultFire is what one advanced ResultValue contributes to an
// Update call's output: its kind and the args it fired this time (one
// group for Order, Random and RandomOnce; every remaining value for
// All and Choice).
type resultFire struct {
	Kind ResultKind
	Args []string
}

// rawAdvance implements spec.md §4.2.3's per-value seq table.
func (v *ResultValue) rawAdvance(ctx *Context) Outcome {
	groupSize := v.Kind.GroupSize()
	var args []string
	switch v.Seq {
	case ResultAll:
		args = v.Values
		v.Values = nil
	case ResultOrder:
		n := groupSize
		if n > len(v.Values) {
			n = len(v.Values)
		}
		args = append([]string{}, v.Values[:n]...)
		v.Values = v.Values[n:]
	case ResultRandom:
		args = randomGroup(ctx, v.Values, groupSize)
	case ResultRandomOnce:
		args = v.drainRandomGroup(ctx, groupSize)
	case ResultChoice:
		args = append([]string{}, v.Values...)
	default:
		panic("unsupported result seq")
	}

	completed := false
	switch v.Seq {
	case ResultAll, ResultRandom, ResultChoice:
		completed = true
	case ResultOrder, ResultRandomOnce:
		completed = len(v.Values) == 0
	}
	data := resultFire{Kind: v.Kind, Args: args}
	if completed {
		return outcomeCompleted(data)
	}
	return outcomeHit(data)
}

// Advance is the composite wrapper from spec.md §4.2.
func (v *ResultValue) Advance(ctx *Context) Outcome {
	return advance[*Context](ctx, valueAdvancer{v}, ctx)
}

type valueAdvancer struct{ v *ResultValue }

func (a valueAdvancer) rawAdvance(ctx *Context, _ *Context) Outcome { return a.v.rawAdvance(ctx) }
func (a valueAdvancer) needsReset() bool                           { return a.v.needsReset() }
func (a valueAdvancer) reset()                                     { a.v.reset() }

func randomGroup(ctx *Context, values []string, groupSize int) []string {
	n := len(values) / groupSize
	if n == 0 {
		return nil
	}
	i := uniformIndex(ctx, n)
	start := i * groupSize
	return append([]string{}, values[start:start+groupSize]...)
}

func (v *ResultValue) drainRandomGroup(ctx *Context, groupSize int) []string {
	n := len(v.Values) / groupSize
	if n == 0 {
		return nil
	}
	i := uniformIndex(ctx, n)
	start := i * groupSize
	group := append([]string{}, v.Values[start:start+groupSize]...)
	v.Values = append(v.Values[:start], v.Values[start+groupSize:]...)
	return group
}

func uniformIndex(ctx *Context, n int) int {
	if n <= 1 {
		return 0
	}
	f := ctx.Sampler()()
	idx := int(f * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// RuleResult is the named reaction a completed simple/compound rule
// triggers: a set of independently-advancing ResultValues fired
// together each time the owning name completes (spec.md §3).
type RuleResult struct {
	Values []*ResultValue
}

type NamedRuleResult struct {
	Name string
	Rule *RuleResult
}

// rawAdvance fires every value and aggregates; the whole RuleResult
// completes only when every value's own advance reported Completed
// this call. A value that self-reset (Restarted) does not count as
// Completed, so a RuleResult holding a repeat value never completes.
func (r *RuleResult) rawAdvance(ctx *Context) Outcome {
	var fires []resultFire
	allCompleted := true
	for _, v := range r.Values {
		out := v.Advance(ctx)
		if f, ok := out.data.(resultFire); ok {
			fires = append(fires, f)
		}
		if out.Tag != Completed {
			allCompleted = false
		}
	}
	if allCompleted {
		return outcomeCompleted(fires)
	}
	return outcomeHit(fires)
}

func (r *RuleResult) needsReset() bool { return false }
func (r *RuleResult) reset()           {}

// Advance is the composite wrapper; RuleResult itself never needs a
// reset, so this is equivalent to rawAdvance but goes through the
// shared contract for consistency with the other two families.
func (r *RuleResult) Advance(ctx *Context) Outcome {
	return advance[*Context](ctx, resultAdvancer{r}, ctx)
}

type resultAdvancer struct{ r *RuleResult }

func (a resultAdvancer) rawAdvance(ctx *Context, _ *Context) Outcome { return a.r.rawAdvance(ctx) }
func (a resultAdvancer) needsReset() bool                           { return a.r.needsReset() }
func (a resultAdvancer) reset()                                     { a.r.reset() }

// Fires extracts the (kind, args) pairs from a RuleResult.Advance
// outcome, in firing order.
func (o Outcome) Fires() []resultFire {
	f, _ := o.data.([]resultFire)
	return f
}
