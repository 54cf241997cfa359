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
package bloomfilter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterAddedEntriesAlwaysMayContain(t *testing.T) {
	require := require.New(t)

	f := New(100)

	var added []string
	for i := 0; i < 100; i++ {
		e := fmt.Sprintf("10.0.0.%d:7000", i)
		f.Add(e)
		added = append(added, e)
	}

	for _, e := range added {
		require.True(f.MayContain(e))
	}
}

func TestFilterNeverAddedUsuallyNotContained(t *testing.T) {
	require := require.New(t)

	f := New(10)
	f.Add("10.0.0.1:7000")
	f.Add("10.0.0.2:7000")

	falsePositives := 0
	for i := 100; i < 1100; i++ {
		if f.MayContain(fmt.Sprintf("10.0.1.%d:7000", i)) {
			falsePositives++
		}
	}
	require.Less(falsePositives, 100)
}
