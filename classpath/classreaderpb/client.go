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

package classreaderpb

import (
	"context"

	"google.golang.org/grpc"
)

// ClassReaderClient is the client half of ClassReaderService. Hand-written
// to the same shape protoc-gen-go-grpc emits: one method per RPC, each
// taking a context and a request message and returning a response message.
type ClassReaderClient interface {
	Read(ctx context.Context, req *ReadRequest, opts ...grpc.CallOption) (*ReadResponse, error)
	List(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
}

const (
	serviceName = "headergen.classreaderpb.ClassReaderService"
	readMethod  = "/" + serviceName + "/Read"
	listMethod  = "/" + serviceName + "/List"
)

type classReaderClient struct {
	cc *grpc.ClientConn
}

// NewClassReaderClient wraps cc as a ClassReaderClient, the same pattern
// sgrpc.NewPackageLoaderClient follows in the teacher's grpcloader.
func NewClassReaderClient(cc *grpc.ClientConn) ClassReaderClient {
	return &classReaderClient{cc: cc}
}

func (c *classReaderClient) Read(ctx context.Context, req *ReadRequest, opts ...grpc.CallOption) (*ReadResponse, error) {
	resp := &ReadResponse{}
	if err := c.cc.Invoke(ctx, readMethod, req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *classReaderClient) List(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	resp := &ListResponse{}
	if err := c.cc.Invoke(ctx, listMethod, req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}
