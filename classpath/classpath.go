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

// Package classpath loads class-file bytes from an ordered list of archives
// (or a platform image) into a lazy, memoizing mapping from binary name to
// byte source, the way a classloader resolves a name to a .class file.
package classpath

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ByteSource produces a class file's raw bytes on demand. Implementations
// must be thread-safe and independently retriable: a failed Bytes call may
// be retried without poisoning later calls.
type ByteSource interface {
	Bytes() ([]byte, error)
}

// zipEntrySource lazily re-opens its archive on every read rather than
// holding the *zip.ReadCloser open for the lifetime of the compiler, so many
// concurrent readers of distinct classes from the same jar never contend on
// a single file handle.
type zipEntrySource struct {
	archivePath string
	entryName   string
}

func (s *zipEntrySource) Bytes() ([]byte, error) {
	r, err := zip.OpenReader(s.archivePath)
	if err != nil {
		return nil, fmt.Errorf("classpath: opening archive %s: %w", s.archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != s.entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("classpath: reading %s from %s: %w", s.entryName, s.archivePath, err)
		}
		defer rc.Close()
		buf := make([]byte, f.UncompressedSize64)
		if _, err := io.ReadFull(rc, buf); err != nil {
			return nil, fmt.Errorf("classpath: reading %s from %s: %w", s.entryName, s.archivePath, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("classpath: entry %s not found in %s", s.entryName, s.archivePath)
}

// Environment is the lazy binary-name -> byte-source mapping produced by
// loading an ordered list of archives. It also remembers which archive
// contributed each name, needed by the dependency collector to tag archives
// EXPLICIT in the dependency record.
//
// Environment is the memoizing cache the bytecode-bound model reads
// through: every TypeBoundClass built from a classpath entry consults the
// ambient Environment, never a private copy, so every observer of a given
// binary name sees the same underlying bytes (adapted from
// pkgloading.CachingLoader's duplicate-suppressing load-once guarantee,
// applied here to per-class byte lookups instead of whole BUILD packages).
type Environment struct {
	mu        sync.Mutex
	sources   map[string]ByteSource // binary name -> lazy source
	archiveOf map[string]string     // binary name -> archive path it was found in
}

// NewEnvironment builds an Environment by indexing archivePaths in order.
// Entries whose name is not a class file or module-info.class are ignored.
// The first archive to contribute a given binary name wins, matching
// standard classpath search order; later archives with the same name are
// never consulted.
func NewEnvironment(archivePaths []string) (*Environment, error) {
	env := &Environment{
		sources:   make(map[string]ByteSource),
		archiveOf: make(map[string]string),
	}
	for _, path := range archivePaths {
		if err := env.index(path); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func (env *Environment) index(archivePath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("classpath: missing archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		name, ok := binaryNameOf(f.Name)
		if !ok {
			continue
		}
		if _, exists := env.sources[name]; exists {
			continue // first-writer-wins
		}
		env.sources[name] = &zipEntrySource{archivePath: archivePath, entryName: f.Name}
		env.archiveOf[name] = archivePath
	}
	return nil
}

// binaryNameOf converts a zip entry name to a binary class name, or reports
// ok == false if the entry is not a class file.
func binaryNameOf(entryName string) (name string, ok bool) {
	if strings.HasSuffix(entryName, "/") {
		return "", false
	}
	if entryName == "module-info.class" || strings.HasSuffix(entryName, "/module-info.class") {
		return strings.TrimSuffix(entryName, ".class"), true
	}
	if !strings.HasSuffix(entryName, ".class") {
		return "", false
	}
	return strings.TrimSuffix(entryName, ".class"), true
}

// Lookup returns the byte source for the given binary name, or ok == false
// if no archive contributed it.
func (env *Environment) Lookup(binaryName string) (ByteSource, bool) {
	env.mu.Lock()
	defer env.mu.Unlock()
	src, ok := env.sources[binaryName]
	return src, ok
}

// ArchiveOf returns the path of the archive that contributed binaryName, or
// "" if it isn't present in this environment.
func (env *Environment) ArchiveOf(binaryName string) string {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.archiveOf[binaryName]
}

// Names returns every binary name this environment can resolve, used to
// build the top-level index's classpath half.
func (env *Environment) Names() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	names := make([]string, 0, len(env.sources))
	for name := range env.sources {
		names = append(names, name)
	}
	return names
}

// NewRemoteEnvironment builds an Environment whose byte sources are remote
// RPC fetches instead of local zip entries. names and archiveOf come from a
// prior directory listing (e.g. grpcreader.Loader.Names); source is called
// once per name to build the lazy, memoizing ByteSource that performs the
// actual fetch. This lets classpath.Environment serve as the common
// consumer-facing type for both the on-disk archive loader and the
// grpcreader platform-image/annotation-processor-host collaborator.
func NewRemoteEnvironment(names []string, archiveOf map[string]string, source func(name string) ByteSource) *Environment {
	env := &Environment{
		sources:   make(map[string]ByteSource, len(names)),
		archiveOf: make(map[string]string, len(names)),
	}
	for _, name := range names {
		env.sources[name] = source(name)
		env.archiveOf[name] = archiveOf[name]
	}
	return env
}
