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

package jarwriter

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/bazelbuild/headergen/binary"
)

func emptyClassFile() *binary.ClassFile {
	return &binary.ClassFile{
		MinorVersion: 0,
		MajorVersion: 53,
		ConstantPool: &binary.ConstantPool{Entries: []binary.CpEntry{{}}},
	}
}

// TestWriteOrdersEntriesAndWritesManifest checks that Write preserves the
// caller's declaration order (b/B before a/A, the reverse of alphabetical)
// rather than re-sorting by binary name.
func TestWriteOrdersEntriesAndWritesManifest(t *testing.T) {
	entries := []Entry{
		{BinaryName: "b/B", Class: emptyClassFile()},
		{BinaryName: "a/A", Class: emptyClassFile()},
		{BinaryName: "a/A$Inner", Class: emptyClassFile()},
	}

	var buf bytes.Buffer
	if err := Write(&buf, entries, Manifest{TargetLabel: "//pkg:target", InjectingRuleKind: "java_library"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading back the jar failed: %v", err)
	}

	var names []string
	var manifest string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "META-INF/MANIFEST.MF" {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("opening manifest: %v", err)
			}
			data := make([]byte, f.UncompressedSize64)
			if _, err := rc.Read(data); err != nil && len(data) == 0 {
				t.Fatalf("reading manifest: %v", err)
			}
			rc.Close()
			manifest = string(data)
		}
		if f.Method != zip.Store {
			t.Errorf("entry %s compressed with method %d, want Store", f.Name, f.Method)
		}
	}

	wantOrder := []string{
		"META-INF/",
		"META-INF/MANIFEST.MF",
		"b/",
		"b/B.class",
		"a/",
		"a/A.class",
		"a/A$Inner.class",
	}
	if len(names) != len(wantOrder) {
		t.Fatalf("entry names = %v, want %v", names, wantOrder)
	}
	for i, want := range wantOrder {
		if names[i] != want {
			t.Errorf("entry[%d] = %q, want %q", i, names[i], want)
		}
	}

	for _, want := range []string{"Manifest-Version: 1.0", "Created-By: headergen", "Target-Label: //pkg:target", "Injecting-Rule-Kind: java_library"} {
		if !strings.Contains(manifest, want) {
			t.Errorf("manifest missing %q, got:\n%s", want, manifest)
		}
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	entries := []Entry{
		{BinaryName: "a/A", Class: emptyClassFile()},
		{BinaryName: "b/B", Class: emptyClassFile()},
	}

	var first, second bytes.Buffer
	if err := Write(&first, entries, Manifest{}); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := Write(&second, entries, Manifest{}); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("two writes of identical input produced different bytes")
	}
}
