package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventNumbers(t *testing.T) {
	ctx := NewContext("test")
	raw := map[string]interface{}{
		"player":    float64(7),
		"achieving": float64(3),
	}
	event, err := DecodeEvent(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, NumberPartValue(7), event.Parts["player"])
	assert.Equal(t, NumberPartValue(3), event.Parts["achieving"])
}

func TestDecodeEventRejectsNegativeNumber(t *testing.T) {
	ctx := NewContext("test")
	raw := map[string]interface{}{"player": float64(-1)}
	_, err := DecodeEvent(ctx, raw)
	require.Error(t, err)
}

func TestDecodeEventDateLiteral(t *testing.T) {
	ctx := NewContext("test")
	raw := map[string]interface{}{"on": "2026.07.31"}
	event, err := DecodeEvent(ctx, raw)
	require.NoError(t, err)
	d, ok := event.Date()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), d)
}

func TestDecodeEventRejectsUnrecognizedString(t *testing.T) {
	ctx := NewContext("test")
	raw := map[string]interface{}{"on": "not-a-date"}
	_, err := DecodeEvent(ctx, raw)
	require.Error(t, err)
}

func TestDecodeEventRejectsUnsupportedType(t *testing.T) {
	ctx := NewContext("test")
	raw := map[string]interface{}{"player": []interface{}{1, 2}}
	_, err := DecodeEvent(ctx, raw)
	require.Error(t, err)
}
