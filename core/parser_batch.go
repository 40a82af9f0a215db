package core

import "strings"

// ParsedRules is the accumulated, line-indexed result of parsing a
// batch of rule text (spec.md §2: "every parse error is isolated to
// its own line").
type ParsedRules struct {
	Simple   []NamedSimpleRule
	Compound []NamedCompoundRule
	Results  []NamedRuleResult
	Errors   []*ParseError
}

// ParseRules parses every non-blank line independently. A line that
// matches none of the three grammars, or matches but is malformed, is
// dropped and its error recorded; parsing continues.
func ParseRules(lines []string) ParsedRules {
	var out ParsedRules
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo := i + 1
		if strings.Contains(line, "->") {
			r, err := ParseRuleResult(lineNo, line)
			if err != nil {
				out.Errors = append(out.Errors, asParseError(err, lineNo, line))
				continue
			}
			out.Results = append(out.Results, r)
			continue
		}

		simple, simpleErr := ParseSimpleRule(lineNo, line)
		if simpleErr == nil {
			out.Simple = append(out.Simple, simple)
			continue
		}
		compound, compoundErr := ParseCompoundRule(lineNo, line)
		if compoundErr == nil {
			out.Compound = append(out.Compound, compound)
			continue
		}
		// Neither grammar matched structurally: prefer whichever
		// error is more specific than a bare NoMatch.
		chosen := simpleErr
		if asParseError(simpleErr, lineNo, line).Kind == NoMatch {
			chosen = compoundErr
		}
		out.Errors = append(out.Errors, asParseError(chosen, lineNo, line))
	}
	return out
}

func asParseError(err error, lineNo int, line string) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return NewParseError(NoMatch, lineNo, line, "%v", err)
}
