// Copyright 2015 Comcast Cable Communications Management, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// End Copyright

package core

import "sort"

// State owns the six enabled/disabled mappings over the three rule
// families (spec.md §4.3). It's exclusively owned by its caller during
// an Update call; sharing one across goroutines is unsupported.
type State struct {
	EnabledSimple  map[string]*SimpleRule
	DisabledSimple map[string]*SimpleRule

	EnabledCompound  map[string]*CompoundRule
	DisabledCompound map[string]*CompoundRule

	EnabledResult  map[string]*RuleResult
	DisabledResult map[string]*RuleResult
}

// NewState builds a State with every given rule enabled and every
// disabled map empty (spec.md §4.3: `new(simple, compound, results)`).
func NewState(simple []NamedSimpleRule, compound []NamedCompoundRule, results []NamedRuleResult) *State {
	s := &State{
		EnabledSimple:    make(map[string]*SimpleRule, len(simple)),
		DisabledSimple:   make(map[string]*SimpleRule),
		EnabledCompound:  make(map[string]*CompoundRule, len(compound)),
		DisabledCompound: make(map[string]*CompoundRule),
		EnabledResult:    make(map[string]*RuleResult, len(results)),
		DisabledResult:   make(map[string]*RuleResult),
	}
	for _, r := range simple {
		s.EnabledSimple[r.Name] = r.Rule
	}
	for _, r := range compound {
		s.EnabledCompound[r.Name] = r.Rule
	}
	for _, r := range results {
		s.EnabledResult[r.Name] = r.Rule
	}
	return s
}

// OutcomeReport is one emitted (kind, args) pair from Update, per
// spec.md §6: `state_update(State, Event) → [(ResultKind, [String])]`.
type OutcomeReport struct {
	Kind ResultKind
	Args []string
}

// sortedSimpleKeys and sortedCompoundKeys give a deterministic-within-a-call iteration order over
// an enabled map (spec.md §4.3: "implementation-defined but must be
// deterministic within a single update call").
func sortedSimpleKeys(m map[string]*SimpleRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCompoundKeys(m map[string]*CompoundRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Update implements the event processor pipeline (spec.md §4.3.1):
// simple phase, compound phase, result phase, special-action phase.
func (s *State) Update(ctx *Context, event Event) []OutcomeReport {
	completedSimple := s.simplePhase(ctx, event)
	completedNames := s.compoundPhase(ctx, event, completedSimple)
	reports := s.resultPhase(ctx, completedNames)
	s.specialActionPhase(reports)
	return reports
}

func (s *State) simplePhase(ctx *Context, event Event) []string {
	var completed []string
	for _, name := range sortedSimpleKeys(s.EnabledSimple) {
		rule := s.EnabledSimple[name]
		out := rule.Advance(ctx, event)
		switch out.Tag {
		case Completed:
			completed = append(completed, name)
			delete(s.EnabledSimple, name)
			s.DisabledSimple[name] = rule
		case Restarted:
			completed = append(completed, name)
		}
	}
	return completed
}

func (s *State) compoundPhase(ctx *Context, event Event, completedSimple []string) []string {
	unified := append([]string{}, completedSimple...)
	if len(s.EnabledCompound) == 0 {
		return unified
	}
	date, ok := event.Date()
	if !ok {
		panic(NewFatalError("event missing required 'on' date part while compound rules exist"))
	}

	var completedCompound []string
	for _, simpleName := range completedSimple {
		for _, name := range sortedCompoundKeys(s.EnabledCompound) {
			rule := s.EnabledCompound[name]
			out := rule.Advance(ctx, CompoundInput{Name: simpleName, Date: date})
			switch out.Tag {
			case Completed:
				completedCompound = append(completedCompound, name)
				delete(s.EnabledCompound, name)
				s.DisabledCompound[name] = rule
			case Restarted:
				completedCompound = append(completedCompound, name)
			}
		}
	}
	return append(unified, completedCompound...)
}

// resultPhase implements spec.md §4.3.1 step 3: every completed name
// that maps to an enabled result fires it once and contributes its
// flattened (kind, args) pairs to the output.
func (s *State) resultPhase(ctx *Context, completedNames []string) []OutcomeReport {
	var reports []OutcomeReport
	for _, name := range completedNames {
		result, ok := s.EnabledResult[name]
		if !ok {
			continue
		}
		out := result.Advance(ctx)
		for _, f := range out.Fires() {
			reports = append(reports, OutcomeReport{Kind: f.Kind, Args: f.Args})
		}
		if out.Tag == Completed {
			delete(s.EnabledResult, name)
			s.DisabledResult[name] = result
		}
	}
	return reports
}

func (s *State) specialActionPhase(reports []OutcomeReport) {
	for _, r := range reports {
		if r.Kind != Restart {
			continue
		}
		for _, a := range r.Args {
			if rule, ok := s.DisabledSimple[a]; ok {
				delete(s.DisabledSimple, a)
				s.EnabledSimple[a] = rule
			}
			if rule, ok := s.DisabledCompound[a]; ok {
				delete(s.DisabledCompound, a)
				s.EnabledCompound[a] = rule
			}
		}
	}
}
