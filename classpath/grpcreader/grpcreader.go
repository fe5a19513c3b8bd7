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

// Package grpcreader is a classpath.ByteSource backed by a remote
// ClassReaderService instead of an on-disk archive: a platform-image server
// or an annotation-processor host that headergen treats as an opaque
// network collaborator rather than reimplementing locally.
//
// Adapted from jadep/grpcloader.Loader: the same dial-to-unix-socket-or-host
// convention and the same status.FromError/codes.Unavailable
// retry-classification idiom, narrowed from a PackageLoader RPC to a
// ClassReader one.
package grpcreader

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bazelbuild/headergen/classpath/classreaderpb"
)

// udsDialerOpt dials a Unix domain socket, the same option grpcloader uses
// for its local-server fast path.
var udsDialerOpt = grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", addr)
})

// Dial connects to addr, a "unix://<path>" socket, a "host:port" TCP
// address, or (by falling straight through to grpc.DialContext) anything
// else gRPC's resolver understands.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := []grpc.DialOption{grpc.WithInsecure(), grpc.WithBlock()}
	dialAddr := addr
	if strings.HasPrefix(addr, "unix://") {
		dialAddr = strings.TrimPrefix(addr, "unix://")
		opts = append(opts, udsDialerOpt)
	}
	conn, err := grpc.DialContext(dialCtx, dialAddr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpcreader: connecting to %s: %w", addr, err)
	}
	return conn, nil
}

// Loader reads class bytes from a remote ClassReaderService, the remote
// counterpart of classpath.Environment's local zip-backed loading.
type Loader struct {
	stub    classreaderpb.ClassReaderClient
	release string
	timeout time.Duration
}

// NewLoader wraps a dialed connection as a Loader for a given platform
// release.
func NewLoader(cc *grpc.ClientConn, release string, timeout time.Duration) *Loader {
	return &Loader{stub: classreaderpb.NewClassReaderClient(cc), release: release, timeout: timeout}
}

// Names asks the remote service which binary names it can serve, paired
// with the archive each would be attributed to, matching the shape
// classpath.Environment.Names/ArchiveOf expose locally.
func (l *Loader) Names(ctx context.Context) (names []string, archiveOf map[string]string, err error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	resp, err := l.stub.List(ctx, &classreaderpb.ListRequest{Release: l.release})
	if err != nil {
		return nil, nil, classifyErr("List", err)
	}
	archiveOf = make(map[string]string, len(resp.BinaryName))
	for i, n := range resp.BinaryName {
		if i < len(resp.Archive) {
			archiveOf[n] = resp.Archive[i]
		}
	}
	return resp.BinaryName, archiveOf, nil
}

// Source returns a lazily-fetching classpath.ByteSource for binaryName;
// the RPC itself only happens on the first Bytes() call, and the result is
// memoized, mirroring zipEntrySource's lazy-but-cheap-to-hold shape except
// that a remote read is worth caching rather than repeating.
func (l *Loader) Source(binaryName string) *ByteSource {
	return &ByteSource{loader: l, binaryName: binaryName}
}

// ByteSource is a classpath.ByteSource reading one class over gRPC,
// memoizing the result after the first successful fetch.
type ByteSource struct {
	loader     *Loader
	binaryName string

	mu   sync.Mutex
	done bool
	data []byte
}

// Bytes implements classpath.ByteSource. A failed fetch is not cached, so
// a later call retries the RPC.
func (s *ByteSource) Bytes() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.data, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.loader.timeout)
	defer cancel()
	resp, err := s.loader.stub.Read(ctx, &classreaderpb.ReadRequest{
		BinaryName: s.binaryName,
		Release:    s.loader.release,
	})
	if err != nil {
		return nil, classifyErr("Read", err)
	}
	if !resp.Found {
		return nil, fmt.Errorf("grpcreader: %s not found at release %s", s.binaryName, s.loader.release)
	}
	s.data, s.done = resp.ClassFile, true
	return s.data, nil
}

// classifyErr labels a failed RPC with the method name and, for
// Unavailable, a hint that the remote service is unreachable rather than
// that the class itself is missing — the same status.Code-driven branch
// grpcloader.killServerIfOld uses to tell "stale server" apart from "real
// failure".
func classifyErr(method string, err error) error {
	if status.Code(err) == codes.Unavailable {
		return fmt.Errorf("grpcreader: %s: remote class reader unavailable: %w", method, err)
	}
	return fmt.Errorf("grpcreader: %s: %w", method, err)
}
