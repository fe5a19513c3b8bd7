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
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ListClasses returns the binary names of every top-level class entry in the
// jar at path (nested classes, i.e. entries whose simple name contains '$',
// are excluded, since the dependency collector only needs the top-level
// names a classpath search would find).
func ListClasses(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("classpath: opening %s: %w", path, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		name, ok := binaryNameOf(f.Name)
		if !ok {
			continue
		}
		if strings.Contains(name, "$") || strings.HasSuffix(name, "/package-info") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// jmodArchivesUnder walks root and returns the path of every .jmod or .jar
// file found, in lexical order, suitable for feeding to NewEnvironment as a
// bootclasspath's constituent archives.
func jmodArchivesUnder(root string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".jmod") || strings.HasSuffix(path, ".jar") {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classpath: walking platform root %s: %w", root, err)
	}
	return archives, nil
}
