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

// Package jarwriter assembles a set of lowered class files into an output
// jar: every entry STORED (never compressed), CRC32-checked, stamped with a
// single fixed timestamp so that two runs over identical input produce a
// byte-identical archive.
package jarwriter

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bazelbuild/headergen/binary"
)

// normalizedModTime is the timestamp written on every entry, chosen once and
// never varied by wall-clock time: otherwise two runs over identical sources
// would never produce identical bytes.
var normalizedModTime = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// toolName is stamped into the manifest's Created-By attribute.
const toolName = "headergen"

// Entry is one class to write, keyed by its class-file binary name (used to
// derive the zip entry name foo/Bar.class).
type Entry struct {
	BinaryName string
	Class      *binary.ClassFile
}

// Manifest holds the optional build-system attributes the manifest carries
// alongside the always-present Manifest-Version and Created-By.
type Manifest struct {
	TargetLabel       string
	InjectingRuleKind string
}

// Write emits entries in the caller's declaration order — the order the
// classes were compiled in, which entries already carries as its slice
// order — breaking ties on binary name only when two entries would
// otherwise compare equal, and a META-INF/MANIFEST.MF built from manifest,
// to w.
func Write(w io.Writer, entries []Entry, manifest Manifest) error {
	type ordered struct {
		Entry
		pos int
	}
	work := make([]ordered, len(entries))
	for i, e := range entries {
		work[i] = ordered{Entry: e, pos: i}
	}
	sort.Slice(work, func(i, j int) bool {
		if work[i].pos != work[j].pos {
			return work[i].pos < work[j].pos
		}
		return work[i].BinaryName < work[j].BinaryName
	})
	sorted := make([]Entry, len(work))
	for i, e := range work {
		sorted[i] = e.Entry
	}

	zw := zip.NewWriter(w)

	if err := writeStored(zw, "META-INF/", nil); err != nil {
		return err
	}
	if err := writeStored(zw, "META-INF/MANIFEST.MF", manifestBytes(manifest)); err != nil {
		return err
	}

	written := make(map[string]bool)
	for _, e := range sorted {
		name := e.BinaryName + ".class"
		for _, dir := range parentDirs(name) {
			if written[dir] {
				continue
			}
			written[dir] = true
			if err := writeStored(zw, dir, nil); err != nil {
				return err
			}
		}
		if err := writeStored(zw, name, binary.Write(e.Class)); err != nil {
			return err
		}
	}

	return zw.Close()
}

func writeStored(zw *zip.Writer, name string, data []byte) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: normalizedModTime,
	}
	hdr.SetMode(0644)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("jarwriter: creating entry %s: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

// parentDirs returns name's ancestor directory entries, outermost first
// (e.g. "a/A.class" -> ["a/"]), the directory entries a jar conventionally
// carries alongside its file entries.
func parentDirs(name string) []string {
	var dirs []string
	for i, c := range name {
		if c == '/' {
			dirs = append(dirs, name[:i+1])
		}
	}
	return dirs
}

func manifestBytes(m Manifest) []byte {
	s := "Manifest-Version: 1.0\r\n"
	s += "Created-By: " + toolName + "\r\n"
	if m.TargetLabel != "" {
		s += "Target-Label: " + m.TargetLabel + "\r\n"
	}
	if m.InjectingRuleKind != "" {
		s += "Injecting-Rule-Kind: " + m.InjectingRuleKind + "\r\n"
	}
	s += "\r\n"
	return []byte(s)
}
