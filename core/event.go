package core

import "time"

// PartValueKind tags the three literal families an event part-value
// can carry (spec.md §3).
type PartValueKind int

const (
	NumberValue PartValueKind = iota
	DateValue
	TimeValue
)

// PartValue is the tagged union an Event maps part-names onto.
// Number holds a non-negative integer; Date holds a calendar date
// (time-of-day truncated); Time holds a wall-clock time-of-day
// (year/month/day pinned to the zero date so only the clock fields
// compare).
type PartValue struct {
	Kind   PartValueKind
	Number uint32
	Date   time.Time
	Time   time.Time
}

func NumberPartValue(n uint32) PartValue { return PartValue{Kind: NumberValue, Number: n} }
func DatePartValue(d time.Time) PartValue {
	return PartValue{Kind: DateValue, Date: d.Truncate(24 * time.Hour)}
}
func TimePartValue(t time.Time) PartValue { return PartValue{Kind: TimeValue, Time: t} }

// Well-known part-names the engine recognizes by convention
// (spec.md §3).  Unknown names are tolerated and ignored.
const (
	PartPlayer    = "player"
	PartDid       = "did"
	PartWith      = "with"
	PartIn        = "in"
	PartOf        = "of"
	PartAchieving = "achieving"
	PartOn        = "on"
	PartAt        = "at"
)

// Event is a mapping from part-name to part-value (spec.md §3).
type Event struct {
	Parts map[string]PartValue
}

func NewEvent(parts map[string]PartValue) Event {
	if parts == nil {
		parts = make(map[string]PartValue)
	}
	return Event{Parts: parts}
}

// Date extracts the required `on` part.  Per spec.md §3/§4.3, its
// absence while any compound rule exists is a logic failure; callers
// that have already checked for compound-rule presence can rely on
// the returned bool.
func (e Event) Date() (time.Time, bool) {
	pv, ok := e.Parts[PartOn]
	if !ok || pv.Kind != DateValue {
		return time.Time{}, false
	}
	return pv.Date, true
}

// epochSentinel is the streak buffer's "unset" marker (spec.md
// §4.2.1.a); original_source uses chrono::NaiveDate::default(),
// which is 1970-01-01.
var epochSentinel = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
