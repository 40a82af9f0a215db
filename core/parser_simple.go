package core

import "strings"

// ParseSimpleRule parses one `<name>: (<keyword> <content>)+ [repeat
// <n|+>]` line (spec.md §4.1). lineNo is 1-based and only used to
// annotate a returned ParseError.
func ParseSimpleRule(lineNo int, line string) (NamedSimpleRule, error) {
	name, body, ok := splitRuleLine(line)
	if !ok {
		return NamedSimpleRule{}, NewParseError(NoMatch, lineNo, line, "missing ':'")
	}
	tokens := strings.Fields(body)
	if len(tokens) == 0 || len(tokens)%2 != 0 {
		return NamedSimpleRule{}, NewParseError(NoMatch, lineNo, line, "odd keyword/content token count")
	}

	iterations := int32(1)
	parts := make(map[string]*WrappedPart)
	for i := 0; i < len(tokens); i += 2 {
		kw, content := tokens[i], tokens[i+1]
		if kw == "repeat" {
			n, err := parseRepeat(content)
			if err != nil {
				return NamedSimpleRule{}, wrapLineErr(err, lineNo, line)
			}
			iterations = n
			continue
		}
		if !simpleKeywords[kw] {
			return NamedSimpleRule{}, NewParseError(NoMatch, lineNo, line, "unknown keyword %q", kw)
		}
		part, err := parseWrappedPart(keywordPartKind(kw), content)
		if err != nil {
			return NamedSimpleRule{}, wrapLineErr(err, lineNo, line)
		}
		parts[kw] = part
	}
	if iterations == 0 {
		return NamedSimpleRule{}, NewParseError(IncorrectContent, lineNo, line, "repeat 0 is illegal")
	}
	return NamedSimpleRule{Name: name, Rule: &SimpleRule{Iterations: iterations, Parts: parts}}, nil
}

// parseRepeat handles the simple-rule form: `repeat +` → infinite,
// `repeat <n>` → that count.
func parseRepeat(content string) (int32, error) {
	if content == "+" {
		return -1, nil
	}
	n, err := parseNumberLiteral(content)
	if err != nil {
		return 0, NewParseError(IncorrectContent, 0, content, "bad repeat count")
	}
	return int32(n), nil
}

func parseWrappedPart(kind WrappedPartKind, content string) (*WrappedPart, error) {
	seq, seqArg, rest, err := parsePartSeq(kind, content)
	if err != nil {
		return nil, err
	}

	var values []PartMatchValue
	switch seq.Kind {
	case SeqAny, SeqAll, SeqOrder:
		values, err = parseKindValueList(kind, rest)
		if err != nil {
			return nil, err
		}
	case SeqStreak:
		if seqArg == 0 {
			return nil, NewParseError(IncorrectContent, 0, content, "streak(n) requires n >= 1")
		}
		values = make([]PartMatchValue, seqArg)
		for i := range values {
			values[i] = PartMatchValue{Border: Exact, LeftT: epochSentinel}
		}
	case SeqSelected:
		values = nil
	}

	return &WrappedPart{
		Kind:     kind,
		Seq:      seq,
		Values:   values,
		OgValues: clonePartValues(values),
	}, nil
}

func parseKindValueList(kind WrappedPartKind, content string) ([]PartMatchValue, error) {
	switch kind {
	case WrappedDate:
		return parseValueList(content, parseDateMatchValue)
	case WrappedTime:
		return parseValueList(content, parseTimeMatchValue)
	default:
		return parseValueList(content, parseNumberMatchValue)
	}
}

// parsePartSeq recognizes the `any(...)`, `all(...)`, `seq(...)`,
// `streak(n)`, `every(d)` func forms, or a bare wildcard/value list
// defaulting to Any (spec.md §4.1).
func parsePartSeq(kind WrappedPartKind, content string) (seq PartSeq, streakN uint32, rest string, err error) {
	fn, inner, ok := splitFuncCall(content)
	if !ok {
		return PartSeq{Kind: SeqAny}, 0, content, nil
	}
	switch fn {
	case "any":
		return PartSeq{Kind: SeqAny}, 0, inner, nil
	case "all":
		return PartSeq{Kind: SeqAll}, 0, inner, nil
	case "seq":
		return PartSeq{Kind: SeqOrder}, 0, inner, nil
	case "streak":
		if kind != WrappedDate {
			return PartSeq{}, 0, "", NewParseError(UnsupportedSeq, 0, content, "streak is Date-only")
		}
		n, perr := parseNumberLiteral(inner)
		if perr != nil || n == 0 {
			return PartSeq{}, 0, "", NewParseError(IncorrectContent, 0, content, "bad streak count")
		}
		return PartSeq{Kind: SeqStreak, Streak: n}, n, "", nil
	case "every":
		if kind != WrappedDate {
			return PartSeq{}, 0, "", NewParseError(UnsupportedSeq, 0, content, "every is Date-only")
		}
		d, perr := parseWeekday(inner)
		if perr != nil {
			return PartSeq{}, 0, "", perr
		}
		return PartSeq{Kind: SeqSelected, Day: d}, 0, "", nil
	default:
		return PartSeq{}, 0, "", NewParseError(UnsupportedSeq, 0, content, "unknown seq %q", fn)
	}
}

// splitRuleLine splits `<name>: <body>` on the first colon.
func splitRuleLine(line string) (name string, body string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+1:]), true
}

func wrapLineErr(err error, lineNo int, line string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Line = lineNo
		pe.Text = line
		return pe
	}
	return NewParseError(IncorrectContent, lineNo, line, "%v", err)
}
