package core

import "time"

// CompoundSeqKind is how a CompoundRule consumes its watch list
// (spec.md §3). Any/All/Order match against the Values list of
// simple-rule names; Streak ignores Values entirely and instead
// tracks a date buffer of its own, advancing on every completed
// simple-rule name regardless of which one it was.
type CompoundSeqKind int

const (
	CompoundAny CompoundSeqKind = iota
	CompoundAll
	CompoundOrder
	CompoundStreak
)

// CompoundSeq carries a seq kind plus whichever payload it owns:
// Streak's parameter and its private date buffer.
type CompoundSeq struct {
	Kind    CompoundSeqKind
	StreakN uint32
	Dates   []time.Time
}

func (s CompoundSeq) clone() CompoundSeq {
	out := s
	out.Dates = append([]time.Time{}, s.Dates...)
	return out
}

// CompoundRule watches a set of simple-rule completions (or, for
// Streak, a run of dated occurrences irrespective of name) and gates
// how many raw completions are needed via an `every` countdown
// (spec.md §3).
type CompoundRule struct {
	Iterations int32
	Every      uint32
	OgEvery    uint32
	Seq        CompoundSeq
	OgSeq      CompoundSeq
	Values     []string
	OgValues   []string
}

type NamedCompoundRule struct {
	Name string
	Rule *CompoundRule
}

// CompoundInput is what Update feeds a compound rule per completed
// simple-rule name: the name itself, plus the event's date (spec.md
// §4.3.1 step 2).
type CompoundInput struct {
	Name string
	Date time.Time
}

func (r *CompoundRule) needsReset() bool {
	return r.Iterations != 0
}

func (r *CompoundRule) reset() {
	r.Every = r.OgEvery
	r.Seq = r.OgSeq.clone()
	r.Values = append([]string{}, r.OgValues...)
}

// rawAdvance implements spec.md §4.2.2.
func (r *CompoundRule) rawAdvance(ctx *Context, in CompoundInput) Outcome {
	seqOut := r.advanceSeq(in)
	switch seqOut.Tag {
	case None:
		return outcomeNone()
	case Hit:
		if idx, ok := seqOut.Index(); ok {
			r.clean(idx)
		}
		return outcomeHit(nil)
	default: // Completed
		r.Every--
		if r.Every == 0 {
			r.Iterations--
			return outcomeCompleted(nil)
		}
		r.Seq = r.OgSeq.clone()
		r.Values = append([]string{}, r.OgValues...)
		return outcomeHit(nil)
	}
}

func (r *CompoundRule) clean(index int) {
	if r.Seq.Kind == CompoundStreak {
		r.Seq.Dates = append(r.Seq.Dates[:index], r.Seq.Dates[index+1:]...)
		return
	}
	r.Values = append(r.Values[:index], r.Values[index+1:]...)
}

func (r *CompoundRule) advanceSeq(in CompoundInput) Outcome {
	switch r.Seq.Kind {
	case CompoundAny:
		return nameAnyAdvance(r.Values, in.Name)
	case CompoundAll:
		return nameAllAdvance(r.Values, in.Name)
	case CompoundOrder:
		return nameOrderAdvance(r.Values, in.Name)
	case CompoundStreak:
		return r.streakAdvance(in.Date)
	default:
		panic("unsupported compound seq")
	}
}

func nameAnyAdvance(values []string, name string) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	for _, v := range values {
		if v == name {
			return outcomeCompleted(nil)
		}
	}
	return outcomeNone()
}

func nameAllAdvance(values []string, name string) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	for i, v := range values {
		if v == name {
			if len(values) == 1 {
				return outcomeCompleted(i)
			}
			return outcomeHit(i)
		}
	}
	return outcomeNone()
}

func nameOrderAdvance(values []string, name string) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	if values[0] == name {
		if len(values) == 1 {
			return outcomeCompleted(0)
		}
		return outcomeHit(0)
	}
	return outcomeNone()
}

func (r *CompoundRule) streakAdvance(d time.Time) Outcome {
	values := r.Seq.Dates
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	first := values[0]
	next := d.AddDate(0, 0, 1)
	if first.Equal(epochSentinel) || first.Equal(d) {
		if len(values) == 1 {
			return outcomeCompleted(0)
		}
		values[1] = next
		return outcomeHit(0)
	}
	n := int(r.Seq.StreakN)
	values = values[:0]
	for i := 0; i < n; i++ {
		values = append(values, epochSentinel)
	}
	values[1] = next
	r.Seq.Dates = values
	return outcomeHit(0)
}

// Advance is the composite wrapper from spec.md §4.2.
func (r *CompoundRule) Advance(ctx *Context, in CompoundInput) Outcome {
	return advance[CompoundInput](ctx, compoundAdvancer{r}, in)
}

type compoundAdvancer struct{ r *CompoundRule }

func (c compoundAdvancer) rawAdvance(ctx *Context, in CompoundInput) Outcome {
	return c.r.rawAdvance(ctx, in)
}
func (c compoundAdvancer) needsReset() bool { return c.r.needsReset() }
func (c compoundAdvancer) reset()           { c.r.reset() }
