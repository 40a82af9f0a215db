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
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/playrules/rulesys/core"
)

func newTestStore(t *testing.T) (*Store, func()) {
	ctx := NewContext("boltTest")
	dir, err := ioutil.TempDir("", "boltTest")
	if err != nil {
		t.Fatal("cannot create tempdir", err)
	}
	s, err := NewStore(ctx, path.Join(dir, "bolt.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal("cannot initialize bolt", err)
	}
	return s, func() {
		s.Close(ctx)
		os.RemoveAll(dir)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := NewContext("boltTest")
	s, cleanup := newTestStore(t)
	defer cleanup()

	_, found, err := s.Load(ctx, "alice")
	assert.NoError(t, err)
	assert.False(t, found)

	blob := []byte(`{"enabled_simple_rules":{}}`)
	assert.NoError(t, s.Save(ctx, "alice", blob))

	got, found, err := s.Load(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, blob, got)
}

func TestStoreDelete(t *testing.T) {
	ctx := NewContext("boltTest")
	s, cleanup := newTestStore(t)
	defer cleanup()

	assert.NoError(t, s.Save(ctx, "bob", []byte("x")))
	assert.NoError(t, s.Delete(ctx, "bob"))

	_, found, err := s.Load(ctx, "bob")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStoreStats(t *testing.T) {
	ctx := NewContext("boltTest")
	s, cleanup := newTestStore(t)
	defer cleanup()

	stats, err := s.GetStats(ctx, "carol")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.NumRecords)

	assert.NoError(t, s.Save(ctx, "carol", []byte("y")))
	assert.NoError(t, s.Save(ctx, "dave", []byte("z")))

	stats, err = s.GetStats(ctx, "carol")
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.NumRecords)
	assert.NotEmpty(t, stats.DateOfLastRecord)

	stats, err = s.GetStats(ctx, "eve")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.NumRecords)
}
