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
	"fmt"

	"github.com/bazelbuild/buildtools/edit"
)

// PruneUnused rewrites the BUILD file under buildDir, dropping each of
// unusedLabels from ruleLabel's deps attribute. unusedLabels are the direct
// dependencies a dependency record marks depspb.UNUSED; Collect itself only
// emits EXPLICIT entries and never marks one UNUSED. This is for a
// build-system action that wants such a finding acted on automatically
// rather than just reported.
//
// Adapted from buildozer.AddDepsToRules: same edit.Options shape and
// allowed-return-code convention, run in reverse (removing instead of
// adding).
func PruneUnused(buildDir, ruleLabel string, unusedLabels []string) error {
	if len(unusedLabels) == 0 {
		return nil
	}
	opts := &edit.Options{
		NumIO:             200,
		KeepGoing:         true,
		PreferEOLComments: true,
		RootDir:           buildDir,
		Quiet:             true,
	}
	var args []string
	args = append(args, "remove deps "+joinLabels(unusedLabels))
	args = append(args, ruleLabel)
	return buildozerExec(opts, args, []int{0, 3})
}

func joinLabels(labels []string) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += " "
		}
		out += l
	}
	return out
}

// buildozerExec invokes edit.Buildozer and maps its integer return code to
// an error, the same convention buildozer.exec uses: 0 means changes were
// applied, 3 means the rule already matched (no-op), anything else is a
// genuine failure.
func buildozerExec(opts *edit.Options, args []string, allowed []int) error {
	retval := edit.Buildozer(opts, args)
	for _, ok := range allowed {
		if retval == ok {
			return nil
		}
	}
	return fmt.Errorf("deps: buildozer returned %d, want one of %v, while executing %v", retval, allowed, args)
}
