package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLoggerSatisfiesLoggerAndDiscards(t *testing.T) {
	var logger Logger = &NoopLogger{}
	assert.NotPanics(t, func() {
		logger.Log(INFO, "op", "x", "n", 1)
		logger.Metric("some.metric", "n", 1)
	})
}

func TestSimpleLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLogger(&buf)
	logger.Log(INFO, "TestSimpleLoggerWritesJSONLines", "n", 1)
	assert.Contains(t, buf.String(), `"n":1`)
}

func TestContextWithNoopLoggerSuppressesOutput(t *testing.T) {
	ctx := NewContext("quiet-test")
	ctx.Logger = &NoopLogger{}
	assert.NotPanics(t, func() {
		Log(INFO, ctx, "op", "key", "should be discarded")
		Metric(ctx, "op", "key", "should be discarded")
	})
}
