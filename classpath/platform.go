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

package classpath

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bazelbuild/rules_go/go/tools/bazel"

	"github.com/bazelbuild/headergen/classpath/grpcreader"
)

// PlatformImage locates the bootclasspath either via an explicit root (a
// directory holding .jmod or .jar archives, passed through --system), a release
// number (--release), which resolves against a fixed table of bundled
// signature archives, or a remote ClassReaderService (--system set to a
// "grpc://" address) for environments where the platform image is served
// rather than installed locally. The three are mutually exclusive, matched
// at the options layer; this package only needs to know which one it got.
type PlatformImage struct {
	SystemRoot string // set if --system was used with a local path.
	Release    string // set if --release was used.

	// DialTimeout bounds the grpc:// case; zero means a 10s default.
	DialTimeout time.Duration
}

// grpcDialTimeout is the default used when PlatformImage.DialTimeout is
// unset.
const grpcDialTimeout = 10 * time.Second

// releaseArchives maps a --release value to the runfiles-relative path of
// the bundled signature archive for that release. It starts empty and is
// filled only through RegisterRelease; nothing in this repository calls
// RegisterRelease, so by default every --release value is reported as an
// unknown platform release.
var releaseArchives = map[string]string{}

// RegisterRelease associates a release number with the runfiles path of its
// bundled signature archive.
func RegisterRelease(release, archivePath string) {
	releaseArchives[release] = archivePath
}

// resolveRunfile resolves path against the Bazel runfiles tree the same way
// compat.RunfilesPath does, falling back to path itself outside a runfiles
// environment (e.g. when headergen runs under `go test` rather than
// `bazel run`).
func resolveRunfile(path string) string {
	if r, err := bazel.Runfile(path); err == nil {
		return r
	}
	return path
}

// NewEnvironment builds the bootclasspath Environment for img: if Release is
// set, resolves it against the registered signature archives; if SystemRoot
// is a "grpc://" address, reads classes from that remote service; if
// SystemRoot is another path, loads every .jmod and .jar archive found under
// it (loose class files are not read). Otherwise (neither set) returns an empty Environment,
// since some invocations genuinely compile with no bootclasspath at all.
func (img PlatformImage) NewEnvironment() (*Environment, error) {
	switch {
	case img.Release != "":
		archive, ok := releaseArchives[img.Release]
		if !ok {
			return nil, fmt.Errorf("classpath: unknown platform release %q", img.Release)
		}
		return NewEnvironment([]string{resolveRunfile(archive)})
	case strings.HasPrefix(img.SystemRoot, "grpc://"):
		return img.newGRPCEnvironment(strings.TrimPrefix(img.SystemRoot, "grpc://"))
	case img.SystemRoot != "":
		archives, err := jmodArchivesUnder(img.SystemRoot)
		if err != nil {
			return nil, err
		}
		return NewEnvironment(archives)
	default:
		return NewEnvironment(nil)
	}
}

// newGRPCEnvironment builds a bootclasspath Environment backed by a remote
// ClassReaderService at addr, used when the platform image is too large to
// ship to every compile action and is instead served from a long-lived
// process (see classpath/grpcreader).
func (img PlatformImage) newGRPCEnvironment(addr string) (*Environment, error) {
	timeout := img.DialTimeout
	if timeout == 0 {
		timeout = grpcDialTimeout
	}
	conn, err := grpcreader.Dial(context.Background(), addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("classpath: platform image server: %w", err)
	}
	loader := grpcreader.NewLoader(conn, img.Release, timeout)
	names, archiveOf, err := loader.Names(context.Background())
	if err != nil {
		return nil, fmt.Errorf("classpath: listing platform image classes from %s: %w", addr, err)
	}
	return NewRemoteEnvironment(names, archiveOf, func(name string) ByteSource {
		return loader.Source(name)
	}), nil
}
