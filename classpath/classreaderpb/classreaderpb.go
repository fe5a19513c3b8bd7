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

// Package classreaderpb is the wire schema for ClassReaderService, the RPC
// service a remote classpath collaborator (a platform-image server, or an
// annotation-processor host) implements. Hand-written rather than
// protoc-generated, the way depspb is, but shaped identically to what
// protoc-gen-go would emit for the same .proto.
package classreaderpb

import "github.com/golang/protobuf/proto"

// ReadRequest asks the remote service for one class's bytes.
type ReadRequest struct {
	BinaryName string `protobuf:"bytes,1,opt,name=binary_name,json=binaryName" json:"binary_name,omitempty"`
	Release    string `protobuf:"bytes,2,opt,name=release" json:"release,omitempty"`
}

func (m *ReadRequest) Reset()         { *m = ReadRequest{} }
func (m *ReadRequest) String() string { return proto.CompactTextString(m) }
func (*ReadRequest) ProtoMessage()    {}

// ReadResponse carries the class bytes, or Found=false if the remote
// service has nothing under that name at that release.
type ReadResponse struct {
	Found     bool   `protobuf:"varint,1,opt,name=found" json:"found,omitempty"`
	ClassFile []byte `protobuf:"bytes,2,opt,name=class_file,json=classFile" json:"class_file,omitempty"`
	Archive   string `protobuf:"bytes,3,opt,name=archive" json:"archive,omitempty"`
}

func (m *ReadResponse) Reset()         { *m = ReadResponse{} }
func (m *ReadResponse) String() string { return proto.CompactTextString(m) }
func (*ReadResponse) ProtoMessage()    {}

// ListRequest asks for every binary name the remote service can serve for a
// release (used to build a platform-image Environment's name index without
// transferring every class file up front).
type ListRequest struct {
	Release string `protobuf:"bytes,1,opt,name=release" json:"release,omitempty"`
}

func (m *ListRequest) Reset()         { *m = ListRequest{} }
func (m *ListRequest) String() string { return proto.CompactTextString(m) }
func (*ListRequest) ProtoMessage()    {}

// ListResponse enumerates binary names, each tagged with the archive it
// would be read from.
type ListResponse struct {
	BinaryName []string `protobuf:"bytes,1,rep,name=binary_name,json=binaryName" json:"binary_name,omitempty"`
	Archive    []string `protobuf:"bytes,2,rep,name=archive" json:"archive,omitempty"`
}

func (m *ListResponse) Reset()         { *m = ListResponse{} }
func (m *ListResponse) String() string { return proto.CompactTextString(m) }
func (*ListResponse) ProtoMessage()    {}
