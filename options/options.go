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

// Package options parses headergen's command-line surface: flag.FlagSet
// plus the option-file (@file) expansion build tools invoke it through.
package options

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bazelbuild/headergen/driver"
)

// commaList is a flag.Value accumulating repeated or comma-separated
// occurrences of a list-valued flag (--classpath, --sources, ...), the
// shape build tools pass these in.
type commaList []string

func (l *commaList) String() string { return strings.Join(*l, ",") }

func (l *commaList) Set(s string) error {
	if s == "" {
		return nil
	}
	*l = append(*l, strings.Split(s, ",")...)
	return nil
}

// Options is every flag headergen recognizes, populated by Parse.
type Options struct {
	Output   string
	Sources  commaList
	SourceJars commaList

	Classpath          commaList
	DirectDependencies commaList
	Bootclasspath      commaList
	System             string
	Release            string

	OutputDeps   string
	DepsArtifacts commaList

	TargetLabel       string
	InjectingRuleKind string

	Javacopts []string

	ReduceClasspathMode string

	// Processors and Processorpath are parsed for build-tool compatibility
	// but never acted on: headergen never invokes an annotation processor.
	Processors    commaList
	Processorpath commaList

	// VlevelFlag and Color mirror cmd/jadep's --vlevel/--color flags.
	VlevelFlag int
	Color      bool
}

// Vlevel returns the verbosity level --vlevel requested, for vlog.Level.
func (o *Options) Vlevel() int { return o.VlevelFlag }

// Mode converts o.ReduceClasspathMode to a driver.Mode.
func (o *Options) Mode() driver.Mode {
	switch o.ReduceClasspathMode {
	case "BAZEL_REDUCED":
		return driver.REDUCED_ATTEMPT
	case "BAZEL_FALLBACK":
		return driver.FALLBACK
	case "JAVABUILDER_REDUCED":
		return driver.EXTERNAL_FALLBACK
	case "NONE", "":
		return driver.FULL
	}
	return driver.FULL
}

// Parse expands args' option files, then parses the result as flags.
// --javacopts consumes everything up to a bare "--" terminator, matching the
// javac-style convention described in the flag table.
func Parse(args []string) (*Options, []string, error) {
	expanded, err := ExpandOptionFiles(args)
	if err != nil {
		return nil, nil, err
	}

	var javacopts []string
	var rest []string
	for i := 0; i < len(expanded); i++ {
		if expanded[i] == "--javacopts" {
			i++
			for i < len(expanded) && expanded[i] != "--" {
				javacopts = append(javacopts, expanded[i])
				i++
			}
			continue
		}
		rest = append(rest, expanded[i])
	}

	o := &Options{Javacopts: javacopts}
	fs := flag.NewFlagSet("headergen", flag.ContinueOnError)
	fs.StringVar(&o.Output, "output", "", "path to emit the header jar")
	fs.Var(&o.Sources, "sources", "list of source paths")
	fs.Var(&o.SourceJars, "source_jars", "source archives whose .java entries are compiled in")
	fs.Var(&o.Classpath, "classpath", "transitive classpath, in order")
	fs.Var(&o.DirectDependencies, "direct_dependencies", "subset of classpath that is a direct dependency")
	fs.Var(&o.Bootclasspath, "bootclasspath", "boot classpath archives")
	fs.StringVar(&o.System, "system", "", "platform image root")
	fs.StringVar(&o.Release, "release", "", "platform release number (mutually exclusive with --system)")
	fs.StringVar(&o.OutputDeps, "output_deps", "", "path to emit the dependency record")
	fs.Var(&o.DepsArtifacts, "deps_artifacts", "dependency records of direct dependencies")
	fs.StringVar(&o.TargetLabel, "target_label", "", "stamped into manifest and dependency record")
	fs.StringVar(&o.InjectingRuleKind, "injecting_rule_kind", "", "stamped into manifest and dependency record")
	fs.StringVar(&o.ReduceClasspathMode, "reduce_classpath_mode", "NONE", "one of BAZEL_REDUCED, BAZEL_FALLBACK, JAVABUILDER_REDUCED, NONE")
	fs.Var(&o.Processors, "processors", "annotation processors (accepted, never invoked)")
	fs.Var(&o.Processorpath, "processorpath", "annotation processor path (accepted, never invoked)")
	fs.IntVar(&o.VlevelFlag, "vlevel", 0, "enable V-leveled logging at the specified level")
	fs.BoolVar(&o.Color, "color", true, "colorize diagnostic output")

	if err := fs.Parse(rest); err != nil {
		return nil, nil, err
	}
	if o.Output == "" {
		return nil, nil, fmt.Errorf("options: --output is required")
	}
	if o.System != "" && o.Release != "" {
		return nil, nil, fmt.Errorf("options: --system and --release are mutually exclusive")
	}
	if release := releaseFromJavacopts(o.Javacopts); release != "" && o.Release == "" {
		o.Release = release
	}
	return o, fs.Args(), nil
}

// releaseFromJavacopts extracts -source/-target/--release from an opaque
// --javacopts list, the only javacopts headergen itself ever inspects
// (spec.md §6: "-source/-target/--release are extracted"). The rest of
// Javacopts is carried through unexamined for compatibility with build
// tools that always pass the full javac flag set.
func releaseFromJavacopts(javacopts []string) string {
	for i := 0; i < len(javacopts); i++ {
		switch javacopts[i] {
		case "-source", "-target", "--release":
			if i+1 < len(javacopts) {
				return javacopts[i+1]
			}
		default:
			if v := strings.TrimPrefix(javacopts[i], "--release="); v != javacopts[i] {
				return v
			}
		}
	}
	return ""
}

// ExpandOptionFiles replaces every "@file" argument with file's whitespace-
// split contents, recursively, and turns "@@foo" into the literal argument
// "@foo".
func ExpandOptionFiles(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "@@"):
			out = append(out, "@"+a[2:])
		case strings.HasPrefix(a, "@"):
			fileArgs, err := readOptionFile(a[1:])
			if err != nil {
				return nil, err
			}
			expanded, err := ExpandOptionFiles(fileArgs)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

func readOptionFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("options: reading option file %s: %w", path, err)
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		args = append(args, scanner.Text())
	}
	return args, scanner.Err()
}
