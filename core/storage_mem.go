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
	"sync"
)

// MemStateStore is an in-memory-only StateStore, useful for tests and
// single-process deployments that don't need durability across
// restarts.
type MemStateStore struct {
	sync.Mutex
	blobs map[string][]byte
	saved map[string]string
}

func NewMemStateStore(ctx *Context) (*MemStateStore, error) {
	Log(INFO|STORAGE, ctx, "MemStateStore.New")
	return &MemStateStore{blobs: make(map[string][]byte), saved: make(map[string]string)}, nil
}

func (s *MemStateStore) Save(ctx *Context, session string, data []byte) error {
	Log(INFO|STORAGE, ctx, "MemStateStore.Save", "session", session, "bytes", len(data))
	s.Lock()
	defer s.Unlock()
	cp := append([]byte{}, data...)
	s.blobs[session] = cp
	s.saved[session] = NowString()
	return nil
}

func (s *MemStateStore) Load(ctx *Context, session string) ([]byte, bool, error) {
	Log(INFO|STORAGE, ctx, "MemStateStore.Load", "session", session)
	s.Lock()
	defer s.Unlock()
	data, ok := s.blobs[session]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, data...), true, nil
}

func (s *MemStateStore) Delete(ctx *Context, session string) error {
	Log(INFO|STORAGE, ctx, "MemStateStore.Delete", "session", session)
	s.Lock()
	delete(s.blobs, session)
	delete(s.saved, session)
	s.Unlock()
	return nil
}

// GetStats reports session's own record, not the store's aggregate
// holdings; session == "" (a reachability probe) always reports
// NumRecords 0 since no session is ever named "".
func (s *MemStateStore) GetStats(ctx *Context, session string) (StorageStats, error) {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.blobs[session]; !ok {
		return StorageStats{}, nil
	}
	return StorageStats{NumRecords: 1, DateOfLastRecord: s.saved[session]}, nil
}

func (s *MemStateStore) Close(ctx *Context) error {
	Log(INFO|STORAGE, ctx, "MemStateStore.Close")
	return nil
}
