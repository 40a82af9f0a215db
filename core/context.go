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

// Context is threaded through every core call.  It carries a Logger,
// a verbosity mask, a handful of freeform log properties added to
// every record, and the uniform random sampler used by RuleResult's
// Random/RandomOnce sequencing (see spec.md §5: RNG is a pluggable
// seam; NewContext installs the process-level math/rand/v2 source, and
// tests replace Rand with a deterministic sampler).
type Context struct {
	Session string

	Logger    Logger
	Verbosity LogLevel
	logProps  map[string]interface{}

	// Rand returns a uniform float64 in [0,1).  Defaults to
	// math/rand/v2's package source if nil; see NewContext.
	Rand func() float64
}

// NewContext makes a Context named for the given session (a log
// property, not a semantic key into any map).
func NewContext(session string) *Context {
	return &Context{
		Session:   session,
		Logger:    DefaultLogger,
		Verbosity: EVERYTHING,
		logProps:  make(map[string]interface{}),
		Rand:      defaultRand,
	}
}

// SetLogValue adds a property that's attached to every subsequent Log call.
func (ctx *Context) SetLogValue(k string, v interface{}) {
	if ctx.logProps == nil {
		ctx.logProps = make(map[string]interface{})
	}
	ctx.logProps[k] = v
}

// Sampler returns the context's RNG seam, falling back to the
// package default if none was injected.
func (ctx *Context) Sampler() func() float64 {
	if ctx == nil || ctx.Rand == nil {
		return defaultRand
	}
	return ctx.Rand
}

// SubContext copies ctx for use in one request/operation, so
// per-request log properties (e.g. a request id) don't leak back
// into the parent. Logger, Verbosity, and Rand are shared.
func (ctx *Context) SubContext() *Context {
	sub := &Context{
		Session:   ctx.Session,
		Logger:    ctx.Logger,
		Verbosity: ctx.Verbosity,
		Rand:      ctx.Rand,
		logProps:  make(map[string]interface{}, len(ctx.logProps)),
	}
	for k, v := range ctx.logProps {
		sub.logProps[k] = v
	}
	return sub
}
