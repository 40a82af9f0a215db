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

// StorageStats summarizes one session's holdings in a StateStore:
// whether a record exists (NumRecords is 0 or 1, since a StateStore
// holds at most one blob per session) and when it was last saved.
type StorageStats struct {
	NumRecords       int
	DateOfLastRecord string
}

// StateStore persists one opaque state_save blob per session
// (spec.md §6: the engine treats the whole-state encoding as a
// portable string; a host picks how to keep it around between
// `update` calls). Implementations: MemStateStore (storage_mem.go) and
// storage/bolt.Store.
type StateStore interface {
	Save(ctx *Context, session string, data []byte) error

	Load(ctx *Context, session string) (data []byte, found bool, err error)

	Delete(ctx *Context, session string) error

	// GetStats reports whether session has a saved record and when
	// it was last written. session == "" is a reachability probe:
	// implementations must answer it without erroring, even though
	// no real session is named "".
	GetStats(ctx *Context, session string) (StorageStats, error)

	Close(ctx *Context) error
}
