package core

import (
	"fmt"
	"reflect"

	"github.com/cbroglie/mapstructure"
)

// DecodeEvent decodes a raw JSON-shaped event object (spec.md §3: each
// property is a bare non-negative integer, a "YYYY.MM.DD" date, or an
// "HH:MM" time-of-day) into an Event.
//
// Every part-value here is a scalar, but which of PartValue's three
// literal families it belongs to depends on the literal's own shape,
// not on any fixed struct tag — exactly the case mapstructure's
// DecodeHookFunc exists for, so raw[name] goes through one hook
// instead of a hand-rolled type switch per caller.
func DecodeEvent(ctx *Context, raw map[string]interface{}) (Event, error) {
	var parts map[string]PartValue
	cfg := &mapstructure.DecoderConfig{
		DecodeHook: partValueHook,
		Result:     &parts,
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return Event{}, err
	}
	if err := dec.Decode(raw); err != nil {
		Log(UERR, ctx, "core.DecodeEvent", "error", err, "raw", raw)
		return Event{}, NewStateDecodeError(err)
	}
	return NewEvent(parts), nil
}

var partValueType = reflect.TypeOf(PartValue{})

func partValueHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != partValueType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		if v < 0 {
			return nil, fmt.Errorf("negative part value %v", v)
		}
		return NumberPartValue(uint32(v)), nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("negative part value %v", v)
		}
		return NumberPartValue(uint32(v)), nil
	case string:
		if t, err := parseTimeLiteral(v); err == nil {
			return TimePartValue(t), nil
		}
		if d, err := parseDateLiteral(v); err == nil {
			return DatePartValue(d), nil
		}
		return nil, fmt.Errorf("unrecognized literal %q", v)
	default:
		return nil, fmt.Errorf("unsupported part value type %T", data)
	}
}
