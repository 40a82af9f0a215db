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

// A request over any transport is handled by Service, which owns a
// set of named sessions, each session one core.State. This package is
// the "external collaborator" spec.md §1 calls out of scope for the
// core: core itself never imports net/http.
package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playrules/rulesys/core"
)

const APIVersion = "0.1.0"

// Service owns every live session's State plus the plumbing (parse
// cache, durable store) rule text and events pass through.
type Service struct {
	Ctx   *core.Context
	Store core.StateStore
	Cache *core.ParseCache

	mu       sync.Mutex
	sessions map[string]*core.State

	// Stopper is set by the HTTP listener to provide a hook for
	// graceful shutdown.
	Stopper func(*core.Context, time.Duration) error
}

// NewService builds a Service backed by store (nil means sessions
// live only in memory and are lost on restart).
func NewService(ctx *core.Context, store core.StateStore) *Service {
	return &Service{
		Ctx:      ctx,
		Store:    store,
		Cache:    core.NewParseCache(1000, time.Hour),
		sessions: make(map[string]*core.State),
	}
}

// session returns session's live State, loading it from Store on a
// cache miss, or creating an empty one if neither has it.
func (s *Service) session(ctx *core.Context, session string) *core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, have := s.sessions[session]; have {
		return st
	}
	if s.Store != nil {
		if blob, found, err := s.Store.Load(ctx, session); err == nil && found {
			if st, err := core.LoadState(ctx, blob); err == nil {
				s.sessions[session] = st
				return st
			}
		}
	}
	st := core.NewState(nil, nil, nil)
	s.sessions[session] = st
	return st
}

func (s *Service) persist(ctx *core.Context, session string, st *core.State) error {
	if s.Store == nil {
		return nil
	}
	blob, err := st.Save(ctx)
	if err != nil {
		return err
	}
	return s.Store.Save(ctx, session, blob)
}

// RuleDiagnostics summarizes one AddRules call: how many lines of
// each family loaded, and every dropped line's parse error.
type RuleDiagnostics struct {
	Simple   int               `json:"simple"`
	Compound int               `json:"compound"`
	Results  int               `json:"results"`
	Errors   []*core.ParseError `json:"errors,omitempty"`
}

// AddRules parses text (spec.md §4.1 grammar, one rule per line) and
// merges every successfully-parsed rule into session's enabled sets.
// Bad lines are dropped and reported, not fatal (spec.md §7).
func (s *Service) AddRules(ctx *core.Context, session string, text string) (RuleDiagnostics, error) {
	lines := strings.Split(text, "\n")
	parsed := s.Cache.Parse(text, lines)

	st := s.session(ctx, session)
	s.mu.Lock()
	for _, r := range parsed.Simple {
		st.EnabledSimple[r.Name] = r.Rule
	}
	for _, r := range parsed.Compound {
		st.EnabledCompound[r.Name] = r.Rule
	}
	for _, r := range parsed.Results {
		st.EnabledResult[r.Name] = r.Rule
	}
	s.mu.Unlock()

	if err := s.persist(ctx, session, st); err != nil {
		return RuleDiagnostics{}, err
	}
	return RuleDiagnostics{
		Simple:   len(parsed.Simple),
		Compound: len(parsed.Compound),
		Results:  len(parsed.Results),
		Errors:   parsed.Errors,
	}, nil
}

// PostEvent decodes raw (spec.md §3's event shape) and advances
// session's State against it, returning the fired outcomes.
//
// A logic-contract violation (core.FatalError, spec.md §7) surfaces
// here as a returned error instead of propagating the panic: this is
// the boundary between the core's fail-fast internal contract and a
// host that needs an ordinary error return.
func (s *Service) PostEvent(ctx *core.Context, session string, raw map[string]interface{}) (reports []core.OutcomeReport, err error) {
	event, err := core.DecodeEvent(ctx, raw)
	if err != nil {
		return nil, err
	}

	st := s.session(ctx, session)

	defer func() {
		if r := recover(); r != nil {
			if problem, ok := r.(core.Problem); ok {
				err = problem
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	reports = st.Update(ctx, event)
	if persistErr := s.persist(ctx, session, st); persistErr != nil {
		return reports, persistErr
	}
	return reports, nil
}

// GetStateBlob returns session's current State encoded via state_save.
func (s *Service) GetStateBlob(ctx *core.Context, session string) ([]byte, error) {
	st := s.session(ctx, session)
	return st.Save(ctx)
}

// PostStateBlob installs blob (previously produced by state_save) as
// session's live State.
func (s *Service) PostStateBlob(ctx *core.Context, session string, blob []byte) error {
	st, err := core.LoadState(ctx, blob)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session] = st
	s.mu.Unlock()
	return s.persist(ctx, session, st)
}

// Healthz reports whether the durable store (if any) is reachable.
func (s *Service) Healthz(ctx *core.Context) error {
	if s.Store == nil {
		return nil
	}
	_, err := s.Store.GetStats(ctx, "")
	return err
}

// Shutdown stops the HTTP listener, if one was started, draining
// pending requests for up to d.
func (s *Service) Shutdown(ctx *core.Context, d time.Duration) error {
	if s.Stopper == nil {
		return nil
	}
	return s.Stopper(ctx, d)
}
