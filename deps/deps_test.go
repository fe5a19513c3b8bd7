// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deps

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bazelbuild/headergen/depspb"
)

func TestReduceClasspathPreservesOrderAndIsSubset(t *testing.T) {
	full := []string{"a.jar", "b.jar", "c.jar", "d.jar"}
	direct := []string{"c.jar"}
	records := []*depspb.Dependencies{
		{Dependency: []*depspb.Dependency{{Path: "a.jar", Kind: depspb.EXPLICIT}}},
	}

	got := ReduceClasspath(full, direct, records)
	want := []string{"a.jar", "c.jar"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReduceClasspath mismatch (-want +got):\n%s", diff)
	}

	inFull := make(map[string]bool, len(full))
	for _, p := range full {
		inFull[p] = true
	}
	for _, p := range got {
		if !inFull[p] {
			t.Errorf("ReduceClasspath returned %q, not present in full", p)
		}
	}
}

func TestReduceClasspathEmptyRecords(t *testing.T) {
	full := []string{"a.jar", "b.jar"}
	got := ReduceClasspath(full, nil, nil)
	if len(got) != 0 {
		t.Errorf("ReduceClasspath with no direct deps or records = %v, want empty", got)
	}
}
