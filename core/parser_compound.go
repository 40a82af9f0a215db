package core

import (
	"strings"
	"time"
)

// ParseCompoundRule parses one `<name>: [repeat] [every <n>] <seq>
// <arg1> <arg2> …` line (spec.md §4.1).
func ParseCompoundRule(lineNo int, line string) (NamedCompoundRule, error) {
	name, body, ok := splitRuleLine(line)
	if !ok {
		return NamedCompoundRule{}, NewParseError(NoMatch, lineNo, line, "missing ':'")
	}
	tokens := strings.Fields(body)
	idx := 0

	iterations := int32(1)
	if idx < len(tokens) && tokens[idx] == "repeat" {
		iterations = -1
		idx++
	}

	every := uint32(1)
	if idx < len(tokens) && tokens[idx] == "every" {
		idx++
		if idx >= len(tokens) {
			return NamedCompoundRule{}, NewParseError(IncorrectContent, lineNo, line, "'every' needs a count")
		}
		n, err := parseNumberLiteral(tokens[idx])
		if err != nil || n == 0 {
			return NamedCompoundRule{}, NewParseError(IncorrectContent, lineNo, line, "bad 'every' count")
		}
		every = n
		idx++
	}

	if idx >= len(tokens) || !compoundSeqWords[tokens[idx]] {
		return NamedCompoundRule{}, NewParseError(NoMatch, lineNo, line, "missing compound seq word")
	}
	seqWord := tokens[idx]
	idx++

	var seq CompoundSeq
	switch seqWord {
	case "any":
		seq = CompoundSeq{Kind: CompoundAny}
	case "all":
		seq = CompoundSeq{Kind: CompoundAll}
	case "seq":
		seq = CompoundSeq{Kind: CompoundOrder}
	case "streak":
		if idx >= len(tokens) {
			return NamedCompoundRule{}, NewParseError(IncorrectContent, lineNo, line, "streak needs a count")
		}
		n, err := parseNumberLiteral(tokens[idx])
		if err != nil || n == 0 {
			return NamedCompoundRule{}, NewParseError(IncorrectContent, lineNo, line, "bad streak count")
		}
		idx++
		dates := make([]time.Time, n)
		for i := range dates {
			dates[i] = epochSentinel
		}
		seq = CompoundSeq{Kind: CompoundStreak, StreakN: n, Dates: dates}
	}

	args := append([]string{}, tokens[idx:]...)
	rule := &CompoundRule{
		Iterations: iterations,
		Every:      every,
		OgEvery:    every,
		Seq:        seq,
		OgSeq:      seq.clone(),
		Values:     args,
		OgValues:   append([]string{}, args...),
	}
	return NamedCompoundRule{Name: name, Rule: rule}, nil
}
