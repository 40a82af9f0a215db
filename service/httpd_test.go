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

package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrules/rulesys/core"
)

func TestServeHTTPRoutes(t *testing.T) {
	ctx := core.NewContext("httpTest")
	svc := NewService(ctx, nil)
	srv := NewServer(ctx, svc)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	rules := "tacos: player 1 achieving 5\n"
	resp, err = http.Post(ts.URL+"/rules?session=alice", "text/plain", bytes.NewBufferString(rules))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var diag RuleDiagnostics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&diag))
	resp.Body.Close()
	assert.Equal(t, 1, diag.Simple)

	event := `{"player":1,"achieving":5}`
	resp, err = http.Post(ts.URL+"/events?session=alice", "application/json", bytes.NewBufferString(event))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/state?session=alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	blob := &bytes.Buffer{}
	_, err = blob.ReadFrom(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Post(ts.URL+"/state?session=bob", "application/json", bytes.NewReader(blob.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestServeHTTPUnknownRoute(t *testing.T) {
	ctx := core.NewContext("httpTest")
	svc := NewService(ctx, nil)
	srv := NewServer(ctx, svc)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
