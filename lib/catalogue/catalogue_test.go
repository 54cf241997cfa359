// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

package catalogue

import (
	"testing"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestNewBootstrapsHealthyAndEmptyUnhealthyRings(t *testing.T) {
	require := require.New(t)

	config := Config{
		Services: map[string][]string{
			"auth":    {"10.0.1.4:7000", "10.0.1.5:7000"},
			"billing": {"10.0.2.4:7000"},
		},
	}

	c, err := New(config, tally.NoopScope, clock.NewMock())
	require.NoError(err)

	auth, ok := c.Healthy("auth")
	require.True(ok)
	require.Len(auth.Snapshot(), 2)

	billing, ok := c.Healthy("billing")
	require.True(ok)
	require.Len(billing.Snapshot(), 1)

	unhealthyAuth, ok := c.Unhealthy("auth")
	require.True(ok)
	require.Empty(unhealthyAuth.Snapshot())

	_, ok = c.Healthy("payments")
	require.False(ok)
}

func TestNewNamespaceWithNoEndpoints(t *testing.T) {
	require := require.New(t)

	config := Config{Services: map[string][]string{"auth": {}}}

	c, err := New(config, tally.NoopScope, clock.NewMock())
	require.NoError(err)

	auth, ok := c.Healthy("auth")
	require.True(ok)
	require.Empty(auth.Snapshot())
}
