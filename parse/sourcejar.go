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

package parse

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/bazelbuild/headergen/ast"
)

// SourceJar parses every ".java" entry in the archive at path into a
// CompilationUnit, the --source_jars half of the CLI surface (spec.md §6).
// Entries are read in the archive's own order; path:entryName is used as
// the diagnostic source path, matching how File names a diagnostic path for
// a plain file.
func SourceJar(path string) ([]*ast.CompilationUnit, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("parse: opening source jar %s: %w", path, err)
	}
	defer r.Close()

	var units []*ast.CompilationUnit
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".java") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("parse: reading %s from %s: %w", f.Name, path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse: reading %s from %s: %w", f.Name, path, err)
		}
		cu, err := Source(path+":"+f.Name, string(data))
		if err != nil {
			return nil, err
		}
		units = append(units, cu)
	}
	return units, nil
}
