package core

import "time"

// Border is the comparison a PartMatchValue applies against an
// incoming event value (spec.md §3).
type Border int

const (
	Exact Border = iota
	Less
	LessEq
	Greater
	GreaterEq
	Between
)

// PartSeqKind is how a rule part's value list is consumed (spec.md §3).
type PartSeqKind int

const (
	SeqAny PartSeqKind = iota
	SeqAll
	SeqOrder
	SeqStreak
	SeqSelected
)

// PartSeq carries a seq kind plus its Streak/Selected parameter.
type PartSeq struct {
	Kind   PartSeqKind
	Streak uint32 // valid when Kind == SeqStreak
	Day    uint8  // valid when Kind == SeqSelected; 0 means any day
}

// PartMatchValue is one (border, left, right?) entry in a rule part's
// value list.  Values are compared against a single underlying type
// per part (Number, Time, or Date); which field is populated is
// determined by the owning WrappedPart's kind.
type PartMatchValue struct {
	Border Border
	Left   uint32
	Right  uint32 // valid iff Border == Between
	LeftT  time.Time
	RightT time.Time // valid iff Border == Between
}

func matchNumber(v PartMatchValue, data uint32) bool {
	switch v.Border {
	case Exact:
		return data == v.Left
	case Less:
		return data < v.Left
	case LessEq:
		return data <= v.Left
	case Greater:
		return data > v.Left
	case GreaterEq:
		// Matches original_source/common/src/simple_rule.rs verbatim:
		// GreaterEq compares with ">", not ">=". Flagged as an open
		// question in spec.md §9; behavior is preserved as-is.
		return data > v.Left
	case Between:
		return v.Left <= data && data <= v.Right
	default:
		return false
	}
}

func matchTime(v PartMatchValue, data time.Time) bool {
	switch v.Border {
	case Exact:
		return data.Equal(v.LeftT)
	case Less:
		return data.Before(v.LeftT)
	case LessEq:
		return !data.After(v.LeftT)
	case Greater:
		return data.After(v.LeftT)
	case GreaterEq:
		// See matchNumber: intentionally ">", mirroring the source.
		return data.After(v.LeftT)
	case Between:
		return !data.Before(v.LeftT) && !data.After(v.RightT)
	default:
		return false
	}
}

// WrappedPartKind distinguishes the three flavors a rule part wraps
// (spec.md §3: Number | Time | Date).
type WrappedPartKind int

const (
	WrappedNumber WrappedPartKind = iota
	WrappedTime
	WrappedDate
)

// WrappedPart is a single named constraint within a SimpleRule.
type WrappedPart struct {
	Kind     WrappedPartKind
	Seq      PartSeq
	Values   []PartMatchValue
	OgValues []PartMatchValue
}

func clonePartValues(vs []PartMatchValue) []PartMatchValue {
	out := make([]PartMatchValue, len(vs))
	copy(out, vs)
	return out
}

func (p *WrappedPart) reset() {
	p.Values = clonePartValues(p.OgValues)
}

// advance runs this part against one event value of the matching
// kind.  It never mismatches kinds itself: callers (SimpleRule.rawAdvance)
// guarantee the event part-value's tag matches this part's Kind,
// per spec.md §7 (a mismatch is the caller's fatal logic bug).
func (p *WrappedPart) advance(pv PartValue) Outcome {
	switch p.Kind {
	case WrappedDate:
		return p.advanceDate(pv.Date)
	case WrappedTime:
		return p.advanceUniform(func(v PartMatchValue) bool { return matchTime(v, pv.Time) })
	default:
		return p.advanceUniform(func(v PartMatchValue) bool { return matchNumber(v, pv.Number) })
	}
}

func (p *WrappedPart) advanceUniform(matches func(PartMatchValue) bool) Outcome {
	switch p.Seq.Kind {
	case SeqAny:
		return seqAnyAdvance(p.Values, matches)
	case SeqAll:
		return seqAllAdvance(p.Values, matches)
	case SeqOrder:
		return seqOrderAdvance(p.Values, matches)
	default:
		panic("unsupported seq for this part kind")
	}
}

func (p *WrappedPart) advanceDate(d time.Time) Outcome {
	switch p.Seq.Kind {
	case SeqAny:
		return seqAnyAdvance(p.Values, func(v PartMatchValue) bool { return matchTime(v, d) })
	case SeqAll:
		return seqAllAdvance(p.Values, func(v PartMatchValue) bool { return matchTime(v, d) })
	case SeqOrder:
		return seqOrderAdvance(p.Values, func(v PartMatchValue) bool { return matchTime(v, d) })
	case SeqStreak:
		return p.streakAdvance(d)
	case SeqSelected:
		return selectedAdvance(d, p.Seq.Day)
	default:
		panic("unsupported seq for a date part")
	}
}

func seqAnyAdvance(values []PartMatchValue, matches func(PartMatchValue) bool) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	for _, v := range values {
		if matches(v) {
			return outcomeCompleted(nil)
		}
	}
	return outcomeNone()
}

func seqAllAdvance(values []PartMatchValue, matches func(PartMatchValue) bool) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	for i, v := range values {
		if matches(v) {
			if len(values) == 1 {
				return outcomeCompleted(i)
			}
			return outcomeHit(i)
		}
	}
	return outcomeNone()
}

func seqOrderAdvance(values []PartMatchValue, matches func(PartMatchValue) bool) Outcome {
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	if matches(values[0]) {
		if len(values) == 1 {
			return outcomeCompleted(0)
		}
		return outcomeHit(0)
	}
	return outcomeNone()
}

// streakAdvance implements spec.md §4.2.1.a over a Date part's
// working buffer.
func (p *WrappedPart) streakAdvance(d time.Time) Outcome {
	values := p.Values
	if len(values) == 0 {
		return outcomeCompleted(nil)
	}
	first := values[0].LeftT
	next := d.AddDate(0, 0, 1)
	if first.Equal(epochSentinel) || first.Equal(d) {
		if len(values) == 1 {
			return outcomeCompleted(0)
		}
		values[1] = PartMatchValue{Border: Exact, LeftT: next}
		return outcomeHit(0)
	}
	// Streak broken: refill with n sentinels, then seed slot 1.
	n := int(p.Seq.Streak)
	values = values[:0]
	for i := 0; i < n; i++ {
		values = append(values, PartMatchValue{Border: Exact, LeftT: epochSentinel})
	}
	values[1] = PartMatchValue{Border: Exact, LeftT: next}
	p.Values = values
	return outcomeHit(0)
}

func selectedAdvance(d time.Time, day uint8) Outcome {
	if day == 0 {
		return outcomeCompleted(nil)
	}
	// ISO weekday: Monday=1..Sunday=7, matching original_source's
	// number_from_monday().
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	if weekday == int(day) {
		return outcomeCompleted(nil)
	}
	return outcomeNone()
}

// SimpleRule holds a pattern over the parts of a single event
// (spec.md §3).
type SimpleRule struct {
	Iterations int32
	Parts      map[string]*WrappedPart
}

// NamedSimpleRule pairs a parsed SimpleRule with its rule name.
type NamedSimpleRule struct {
	Name string
	Rule *SimpleRule
}

func (r *SimpleRule) needsReset() bool {
	return r.Iterations != 0
}

func (r *SimpleRule) reset() {
	for _, p := range r.Parts {
		p.reset()
	}
}

// rawAdvance implements spec.md §4.2.1.
func (r *SimpleRule) rawAdvance(ctx *Context, event Event) Outcome {
	type partResult struct {
		name string
		out  Outcome
	}
	results := make([]partResult, 0, len(event.Parts))
	for name, pv := range event.Parts {
		part, ok := r.Parts[name]
		if !ok {
			// Vacuously satisfied: no rule part to violate.
			results = append(results, partResult{name, outcomeCompleted(nil)})
			continue
		}
		if !partValueMatchesKind(part.Kind, pv) {
			panic(NewFatalError("event part %q has tag %d incompatible with rule part kind %d", name, pv.Kind, part.Kind))
		}
		out := part.advance(pv)
		if out.Tag == None {
			// Short-circuits: the whole rule's outcome is None.
			return outcomeNone()
		}
		results = append(results, partResult{name, out})
	}

	allCompleted := true
	for _, pr := range results {
		if pr.out.Tag != Completed {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		r.Iterations--
		return outcomeCompleted(nil)
	}
	for _, pr := range results {
		if idx, ok := pr.out.Index(); ok {
			part := r.Parts[pr.name]
			part.Values = append(part.Values[:idx], part.Values[idx+1:]...)
		}
	}
	return outcomeHit(nil)
}

func partValueMatchesKind(k WrappedPartKind, pv PartValue) bool {
	switch k {
	case WrappedNumber:
		return pv.Kind == NumberValue
	case WrappedTime:
		return pv.Kind == TimeValue
	case WrappedDate:
		return pv.Kind == DateValue
	default:
		return false
	}
}

// Advance is the composite wrapper from spec.md §4.2: raw_advance,
// then reset+relabel to Restarted if completed and iterations remain.
func (r *SimpleRule) Advance(ctx *Context, event Event) Outcome {
	return advance[Event](ctx, simpleAdvancer{r}, event)
}

type simpleAdvancer struct{ r *SimpleRule }

func (s simpleAdvancer) rawAdvance(ctx *Context, data Event) Outcome { return s.r.rawAdvance(ctx, data) }
func (s simpleAdvancer) needsReset() bool                           { return s.r.needsReset() }
func (s simpleAdvancer) reset()                                     { s.r.reset() }
