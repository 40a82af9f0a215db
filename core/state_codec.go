package core

import "encoding/json"

// stateDTO mirrors State field-for-field. It exists (rather than
// marshaling *State directly) so the wire shape is pinned explicitly
// and doesn't silently drift if State ever grows an unexported or
// derived field.
type stateDTO struct {
	EnabledSimple  map[string]*SimpleRule   `json:"enabled_simple_rules"`
	DisabledSimple map[string]*SimpleRule   `json:"disabled_simple_rules"`
	EnabledCompound  map[string]*CompoundRule `json:"enabled_compound_rules"`
	DisabledCompound map[string]*CompoundRule `json:"disabled_compound_rules"`
	EnabledResult  map[string]*RuleResult   `json:"enabled_rule_results"`
	DisabledResult map[string]*RuleResult   `json:"disabled_rule_results"`
}

// Save emits a canonical portable encoding of s (spec.md §6
// state_save). The encoding is plain JSON: every field State carries
// is exported, so round-tripping through it is exact.
func (s *State) Save(ctx *Context) ([]byte, error) {
	dto := stateDTO{
		EnabledSimple:    s.EnabledSimple,
		DisabledSimple:   s.DisabledSimple,
		EnabledCompound:  s.EnabledCompound,
		DisabledCompound: s.DisabledCompound,
		EnabledResult:    s.EnabledResult,
		DisabledResult:   s.DisabledResult,
	}
	bs, err := json.Marshal(&dto)
	if err != nil {
		Log(ERROR, ctx, "State.Save", "error", err)
		return nil, err
	}
	return bs, nil
}

// LoadState parses an encoding previously produced by Save
// (spec.md §6 state_load). A malformed blob is a fatal contract
// violation (spec.md §7): the caller handed state_load something
// state_save never produced.
func LoadState(ctx *Context, data []byte) (*State, error) {
	var dto stateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, NewStateDecodeError(err)
	}
	s := &State{
		EnabledSimple:    dto.EnabledSimple,
		DisabledSimple:   dto.DisabledSimple,
		EnabledCompound:  dto.EnabledCompound,
		DisabledCompound: dto.DisabledCompound,
		EnabledResult:    dto.EnabledResult,
		DisabledResult:   dto.DisabledResult,
	}
	if s.EnabledSimple == nil {
		s.EnabledSimple = map[string]*SimpleRule{}
	}
	if s.DisabledSimple == nil {
		s.DisabledSimple = map[string]*SimpleRule{}
	}
	if s.EnabledCompound == nil {
		s.EnabledCompound = map[string]*CompoundRule{}
	}
	if s.DisabledCompound == nil {
		s.DisabledCompound = map[string]*CompoundRule{}
	}
	if s.EnabledResult == nil {
		s.EnabledResult = map[string]*RuleResult{}
	}
	if s.DisabledResult == nil {
		s.DisabledResult = map[string]*RuleResult{}
	}
	return s, nil
}
