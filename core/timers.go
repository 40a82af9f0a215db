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

// These timers measure time.  They are supposed to be simple and fast.

import "time"

// Timer measures the wall time spent in one named operation and
// reports it as a METRIC log record when stopped.
type Timer struct {
	ctx  *Context
	name string
	then time.Time
}

// NewTimer starts a timer named s. ctx is optional.
func NewTimer(ctx *Context, s string) *Timer {
	return &Timer{ctx: ctx, name: s, then: time.Now()}
}

// Stop records the elapsed time and returns it in nanoseconds.
func (t *Timer) Stop() int64 {
	elapsed := time.Since(t.then)
	Metric(t.ctx, t.name, "ms", elapsed.Milliseconds())
	return elapsed.Nanoseconds()
}
