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

// Package depspb holds the wire message written to --output_deps: one
// Dependency per archive that contributed a class to the supertype
// closure of the classes actually compiled.
package depspb

import "github.com/golang/protobuf/proto"

// Kind classifies how an archive relates to the compilation, mirroring the
// categories a build system's strict-deps checker distinguishes between.
type Kind int32

const (
	// UNKNOWN is the zero value; a properly filled-in record never has it.
	UNKNOWN Kind = 0
	// EXPLICIT is an archive that contributed a class to the compile.
	// deps.Collect gives every contributing archive this kind, whether or not
	// it is on the direct-dependencies list.
	EXPLICIT Kind = 1
	// IMPLICIT is an archive reached only transitively, never declared as a
	// direct dependency, but still required to complete the compile.
	IMPLICIT Kind = 2
	// INCOMPLETE marks a record produced by a run that fell back from a
	// reduced classpath and can't be trusted to be a minimal dependency set.
	INCOMPLETE Kind = 3
	// UNUSED is a declared direct dependency that contributed nothing.
	UNUSED Kind = 4
)

func (k Kind) String() string {
	switch k {
	case EXPLICIT:
		return "EXPLICIT"
	case IMPLICIT:
		return "IMPLICIT"
	case INCOMPLETE:
		return "INCOMPLETE"
	case UNUSED:
		return "UNUSED"
	}
	return "UNKNOWN"
}

// Dependency is one archive's entry in a Dependencies message.
type Dependency struct {
	Path string `protobuf:"bytes,1,opt,name=path" json:"path,omitempty"`
	Kind Kind   `protobuf:"varint,2,opt,name=kind,enum=depspb.Kind" json:"kind,omitempty"`
}

func (m *Dependency) Reset()         { *m = Dependency{} }
func (m *Dependency) String() string { return proto.CompactTextString(m) }
func (*Dependency) ProtoMessage()    {}

// Dependencies is the full --output_deps artifact: every archive touched by
// the supertype closure, plus whether a reduced-classpath run fell back.
type Dependencies struct {
	Dependency        []*Dependency `protobuf:"bytes,1,rep,name=dependency" json:"dependency,omitempty"`
	RuleLabel         string        `protobuf:"bytes,2,opt,name=rule_label,json=ruleLabel" json:"rule_label,omitempty"`
	ReducedClasspath  int32         `protobuf:"varint,3,opt,name=reduced_classpath,json=reducedClasspath" json:"reduced_classpath,omitempty"`
	TransitiveClasspath int32       `protobuf:"varint,4,opt,name=transitive_classpath,json=transitiveClasspath" json:"transitive_classpath,omitempty"`
	RequiresReducedClasspathFallback bool `protobuf:"varint,5,opt,name=requires_reduced_classpath_fallback,json=requiresReducedClasspathFallback" json:"requires_reduced_classpath_fallback,omitempty"`
}

func (m *Dependencies) Reset()         { *m = Dependencies{} }
func (m *Dependencies) String() string { return proto.CompactTextString(m) }
func (*Dependencies) ProtoMessage()    {}

// Marshal serializes d in protobuf wire format.
func Marshal(d *Dependencies) ([]byte, error) {
	return proto.Marshal(d)
}

// Unmarshal parses protobuf wire format data into a fresh Dependencies.
func Unmarshal(data []byte) (*Dependencies, error) {
	d := &Dependencies{}
	if err := proto.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}
