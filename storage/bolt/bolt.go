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

package bolt

import (
	"time"

	"github.com/boltdb/bolt"

	. "github.com/playrules/rulesys/core"
)

// sessionsBucket is the single bucket all session blobs live in. One
// state_save blob per session, keyed by session id, unlike rulio's
// per-location fact buckets.
var sessionsBucket = []byte("sessions")

// metaBucket tracks each session's last-saved timestamp, keyed the
// same way as sessionsBucket, so GetStats can report per-session
// recency without having to store it inline with the blob.
var metaBucket = []byte("meta")

// Store implements core.StateStore using boltdb.
//
// This name stutters a little less than rulio's BoltStorage did
// because there's only one kind of thing to store now.
type Store struct {
	db       *bolt.DB
	Filename string
}

var DefaultOptions = &bolt.Options{
	Timeout: 5 * time.Second,
}

// NewStore opens (creating if needed) a bolt-backed StateStore at filename.
func NewStore(ctx *Context, filename string) (*Store, error) {
	Log(INFO|STORAGE, ctx, "bolt.NewStore", "filename", filename)
	db, err := bolt.Open(filename, 0644, DefaultOptions)
	if err != nil {
		Log(CRIT, ctx, "bolt.NewStore", "error", err, "file", filename)
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(sessionsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, Filename: filename}, nil
}

func (s *Store) Save(ctx *Context, session string, data []byte) error {
	timer := NewTimer(ctx, "bolt.Store.Save")
	defer timer.Stop()
	Log(INFO|STORAGE, ctx, "bolt.Store.Save", "session", session, "bytes", len(data))
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		if err := bucket.Put([]byte(session), data); err != nil {
			return err
		}
		meta := tx.Bucket(metaBucket)
		return meta.Put([]byte(session), []byte(NowString()))
	})
}

func (s *Store) Load(ctx *Context, session string) ([]byte, bool, error) {
	timer := NewTimer(ctx, "bolt.Store.Load")
	defer timer.Stop()
	Log(INFO|STORAGE, ctx, "bolt.Store.Load", "session", session)
	var data []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		v := bucket.Get([]byte(session))
		if v != nil {
			found = true
			data = append([]byte{}, v...)
		}
		return nil
	})
	return data, found, err
}

func (s *Store) Delete(ctx *Context, session string) error {
	timer := NewTimer(ctx, "bolt.Store.Delete")
	defer timer.Stop()
	Log(INFO|STORAGE, ctx, "bolt.Store.Delete", "session", session)
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		if err := bucket.Delete([]byte(session)); err != nil {
			return err
		}
		meta := tx.Bucket(metaBucket)
		return meta.Delete([]byte(session))
	})
}

// GetStats reports session's own record, not the bucket's aggregate
// key count; session == "" (a reachability probe) always reports
// NumRecords 0 since no session is ever named "".
func (s *Store) GetStats(ctx *Context, session string) (StorageStats, error) {
	var stats StorageStats
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		if bucket.Get([]byte(session)) == nil {
			return nil
		}
		stats.NumRecords = 1
		meta := tx.Bucket(metaBucket)
		if v := meta.Get([]byte(session)); v != nil {
			stats.DateOfLastRecord = string(v)
		}
		return nil
	})
	return stats, err
}

func (s *Store) Close(ctx *Context) error {
	Log(INFO|STORAGE, ctx, "bolt.Store.Close")
	return s.db.Close()
}
