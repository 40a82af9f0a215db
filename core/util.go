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

import (
	"encoding/json"
	"os"
	"runtime"
	"strconv"
	"time"
)

// ParseJSON parses a map from bytes.
func ParseJSON(ctx *Context, bs []byte) (map[string]interface{}, error) {
	var pattern map[string]interface{}
	err := json.Unmarshal(bs, &pattern)
	if err != nil {
		err = NewStateDecodeError(err)
		Log(UERR, ctx, "core.ParseJSON", "error", err, "bs", string(bs))
	}
	return pattern, err
}

// ParseJSONString parses a map from a string.
func ParseJSONString(ctx *Context, s string) (map[string]interface{}, error) {
	return ParseJSON(ctx, []byte(s))
}

// StringSet represents a set of strings.
//
// A StringSet is not synchronized.
type StringSet map[string]struct{}

// NewStringSet does what you'd expect.
func NewStringSet(xs []string) StringSet {
	ss := make(StringSet)
	for _, x := range xs {
		ss.Add(x)
	}
	return ss
}

var nothing = struct{}{}

// Add adds the given string to the set.
func (s StringSet) Add(x string) StringSet {
	s[x] = nothing
	return s
}

// Rem removes the given string from the set.
func (s StringSet) Rem(x string) StringSet {
	delete(s, x)
	return s
}

// Contains reports whether the given string is in the set.
func (s StringSet) Contains(x string) bool {
	_, have := s[x]
	return have
}

// Array returns the set's elements as a slice, in no particular order.
func (s StringSet) Array() []string {
	acc := make([]string, 0, len(s))
	for x := range s {
		acc = append(acc, x)
	}
	return acc
}

// Map is a generic JSON object: an event payload, a state_save
// fragment, or similar.
type Map map[string]interface{}

// ParseMap tries to parse a Map from JSON.
func ParseMap(js string) (Map, error) {
	var m Map
	err := json.Unmarshal([]byte(js), &m)
	return m, err
}

func (m Map) JSON() (string, error) {
	bs, err := json.Marshal(&m)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// NowString returns the current time in UTC, RFC3339Nano.
func NowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// UseCores will use all cores unless the environment variable
// 'GOMAXPROCS' is already set.
func UseCores(ctx *Context, silent bool) {
	cores := os.Getenv("GOMAXPROCS")
	if cores == "" {
		n := runtime.NumCPU()
		if !silent {
			Log(INFO, ctx, "UseCores", "cores", n, "from", "NumCPU")
		}
		runtime.GOMAXPROCS(n)
		cores = strconv.Itoa(n)
	} else if !silent {
		Log(INFO, ctx, "UseCores", "cores", cores, "from", "env")
	}
}
