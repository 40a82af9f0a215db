package core

import "strings"

var resultKindWords = map[string]ResultKind{
	"msg":     Message,
	"reward":  Reward,
	"offer":   Offer,
	"open":    Open,
	"restart": Restart,
}

var resultSeqWords = map[string]ResultSeqKind{
	"all":         ResultAll,
	"seq":         ResultOrder,
	"random":      ResultRandom,
	"random_once": ResultRandomOnce,
	"choice":      ResultChoice,
}

// ParseRuleResult parses one `<name> -> <part>(; <part>)*` line, where
// `<part> := [repeat] <kind> [<seq>] <arg>+` (spec.md §4.1).
func ParseRuleResult(lineNo int, line string) (NamedRuleResult, error) {
	name, body, ok := splitResultLine(line)
	if !ok {
		return NamedRuleResult{}, NewParseError(NoMatch, lineNo, line, "missing '->'")
	}

	var values []*ResultValue
	for _, part := range strings.Split(body, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := parseResultPart(part)
		if err != nil {
			return NamedRuleResult{}, wrapLineErr(err, lineNo, line)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return NamedRuleResult{}, NewParseError(NoMatch, lineNo, line, "no result parts")
	}
	return NamedRuleResult{Name: name, Rule: &RuleResult{Values: values}}, nil
}

func parseResultPart(part string) (*ResultValue, error) {
	tokens := strings.Fields(part)
	idx := 0

	iterations := int32(1)
	if idx < len(tokens) && tokens[idx] == "repeat" {
		iterations = -1
		idx++
	}

	if idx >= len(tokens) {
		return nil, NewParseError(NoMatch, 0, part, "missing kind")
	}
	kind, ok := resultKindWords[tokens[idx]]
	if !ok {
		return nil, NewParseError(UnsupportedKind, 0, part, "unknown kind %q", tokens[idx])
	}
	idx++

	seq := ResultAll
	if idx < len(tokens) {
		if s, ok := resultSeqWords[tokens[idx]]; ok {
			seq = s
			idx++
		}
	}

	args := append([]string{}, tokens[idx:]...)
	groupSize := kind.GroupSize()
	if groupSize > 1 && len(args)%groupSize != 0 {
		return nil, NewParseError(IncorrectContent, 0, part, "argument count %d not a multiple of group size %d", len(args), groupSize)
	}

	return &ResultValue{
		Iterations: iterations,
		Kind:       kind,
		Seq:        seq,
		Values:     args,
		OgValues:   append([]string{}, args...),
	}, nil
}

func splitResultLine(line string) (name string, body string, ok bool) {
	idx := strings.Index(line, "->")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+2:]), true
}
