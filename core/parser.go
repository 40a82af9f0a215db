package core

import (
	"strconv"
	"strings"
	"time"
)

// simpleKeywords is the closed set of part-names/keywords the simple
// rule grammar accepts, besides the `repeat` modifier (spec.md §4.1).
var simpleKeywords = map[string]bool{
	PartPlayer:    true,
	PartDid:       true,
	PartWith:      true,
	PartIn:        true,
	PartOf:        true,
	PartAchieving: true,
	PartOn:        true,
	PartAt:        true,
}

var compoundSeqWords = map[string]bool{
	"any": true, "all": true, "seq": true, "streak": true,
}

func keywordPartKind(kw string) WrappedPartKind {
	switch kw {
	case PartOn:
		return WrappedDate
	case PartAt:
		return WrappedTime
	default:
		return WrappedNumber
	}
}

func splitBorder(tok string) (border Border, left string, right string) {
	switch {
	case strings.Contains(tok, ".."):
		parts := strings.SplitN(tok, "..", 2)
		return Between, parts[0], parts[1]
	case strings.HasPrefix(tok, ">="):
		return GreaterEq, tok[2:], ""
	case strings.HasPrefix(tok, "<="):
		return LessEq, tok[2:], ""
	case strings.HasPrefix(tok, ">"):
		return Greater, tok[1:], ""
	case strings.HasPrefix(tok, "<"):
		return Less, tok[1:], ""
	default:
		return Exact, tok, ""
	}
}

func parseNumberLiteral(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint32(n), err
}

// parseDateLiteral accepts the grammar's dot-separated date literal
// (spec.md §4.1: `YYYY.MM.DD`) by rewriting dots to dashes before
// handing it to time.Parse, mirroring original_source's
// `.replace(".", "-")` step.
func parseDateLiteral(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.ReplaceAll(strings.TrimSpace(s), ".", "-"))
}

func parseTimeLiteral(s string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(s))
}

func parseNumberMatchValue(tok string) (PartMatchValue, error) {
	b, l, r := splitBorder(tok)
	left, err := parseNumberLiteral(l)
	if err != nil {
		return PartMatchValue{}, err
	}
	v := PartMatchValue{Border: b, Left: left}
	if b == Between {
		right, err := parseNumberLiteral(r)
		if err != nil {
			return PartMatchValue{}, err
		}
		if left > right {
			return PartMatchValue{}, NewParseError(IncorrectContent, 0, tok, "between bounds out of order")
		}
		v.Right = right
	}
	return v, nil
}

func parseDateMatchValue(tok string) (PartMatchValue, error) {
	b, l, r := splitBorder(tok)
	left, err := parseDateLiteral(l)
	if err != nil {
		return PartMatchValue{}, err
	}
	v := PartMatchValue{Border: b, LeftT: left}
	if b == Between {
		right, err := parseDateLiteral(r)
		if err != nil {
			return PartMatchValue{}, err
		}
		if left.After(right) {
			return PartMatchValue{}, NewParseError(IncorrectContent, 0, tok, "between bounds out of order")
		}
		v.RightT = right
	}
	return v, nil
}

func parseTimeMatchValue(tok string) (PartMatchValue, error) {
	b, l, r := splitBorder(tok)
	left, err := parseTimeLiteral(l)
	if err != nil {
		return PartMatchValue{}, err
	}
	v := PartMatchValue{Border: b, LeftT: left}
	if b == Between {
		right, err := parseTimeLiteral(r)
		if err != nil {
			return PartMatchValue{}, err
		}
		if left.After(right) {
			return PartMatchValue{}, NewParseError(IncorrectContent, 0, tok, "between bounds out of order")
		}
		v.RightT = right
	}
	return v, nil
}

// parseValueList splits a comma-joined value list and parses each
// token with parseOne, silently skipping any token containing '*'
// (the grammar's wildcard placeholder) — mirroring
// original_source/parser/src/parsing/simple_rule.rs's `parse_values`,
// where a bare `*` content yields an empty list by the same mechanism.
func parseValueList(content string, parseOne func(string) (PartMatchValue, error)) ([]PartMatchValue, error) {
	if content == "" {
		return nil, nil
	}
	var out []PartMatchValue
	for _, tok := range strings.Split(content, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.Contains(tok, "*") {
			continue
		}
		v, err := parseOne(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var weekdayWords = map[string]uint8{
	"DAY": 0, "MONDAY": 1, "TUESDAY": 2, "WEDNESDAY": 3,
	"THURSDAY": 4, "FRIDAY": 5, "SATURDAY": 6, "SUNDAY": 7,
}

func parseWeekday(tok string) (uint8, error) {
	if d, ok := weekdayWords[strings.ToUpper(tok)]; ok {
		return d, nil
	}
	n, err := strconv.ParseUint(tok, 10, 8)
	if err != nil || n > 7 {
		return 0, NewParseError(IncorrectContent, 0, tok, "not a day-of-week")
	}
	return uint8(n), nil
}

// splitFuncCall recognizes `word(inner)` without resorting to
// regexp: the grammar's func-call content is always a bare identifier
// immediately followed by a parenthesized, comma-joined argument list.
func splitFuncCall(content string) (fn string, inner string, ok bool) {
	open := strings.IndexByte(content, '(')
	if open <= 0 || !strings.HasSuffix(content, ")") {
		return "", "", false
	}
	return content[:open], content[open+1 : len(content)-1], true
}
