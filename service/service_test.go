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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrules/rulesys/core"
)

func TestAddRulesAndPostEventFiresResult(t *testing.T) {
	ctx := core.NewContext("test")
	svc := NewService(ctx, nil)

	diag, err := svc.AddRules(ctx, "alice", "login: player 1\nlogin -> msg all welcome")
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Simple)
	assert.Equal(t, 1, diag.Results)
	assert.Empty(t, diag.Errors)

	reports, err := svc.PostEvent(ctx, "alice", map[string]interface{}{
		"player": float64(1),
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, core.Message, reports[0].Kind)
}

func TestPostEventSurfacesFatalContractViolations(t *testing.T) {
	ctx := core.NewContext("test")
	svc := NewService(ctx, nil)

	_, err := svc.AddRules(ctx, "bob", "login: player 1\ncombo: any login")
	require.NoError(t, err)

	_, err = svc.PostEvent(ctx, "bob", map[string]interface{}{
		"player": float64(1),
	})
	require.Error(t, err)
	problem, ok := err.(core.Problem)
	require.True(t, ok)
	assert.True(t, problem.IsFatal())
}

func TestGetAndPostStateBlobRoundTrip(t *testing.T) {
	ctx := core.NewContext("test")
	svc := NewService(ctx, nil)

	_, err := svc.AddRules(ctx, "carol", "login: player 1")
	require.NoError(t, err)

	blob, err := svc.GetStateBlob(ctx, "carol")
	require.NoError(t, err)

	require.NoError(t, svc.PostStateBlob(ctx, "dave", blob))

	reports, err := svc.PostEvent(ctx, "dave", map[string]interface{}{"player": float64(1)})
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestHealthzWithoutStoreIsOK(t *testing.T) {
	ctx := core.NewContext("test")
	svc := NewService(ctx, nil)
	assert.NoError(t, svc.Healthz(ctx))
}
