// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package interceptor adapts the throttle admission check to gRPC serving
// pipelines. All fail-open semantics live in throttle.Service; this package
// only maps an inbound RPC to a throttle.Request and a throttle verdict to a
// ResourceExhausted status.
package interceptor

import (
	"context"
	"strings"

	"github.com/golang/glog"
	"github.com/google/turnstile/throttle"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// requestIDKey is the metadata key consulted before generating a request id.
const requestIDKey = "x-request-id"

// ThrottleInterceptor rejects RPCs from tenants that are over their rate
// limit, as decided by the wrapped Service.
type ThrottleInterceptor struct {
	Service *throttle.Service

	// DryRun logs would-be rejections without failing the RPC.
	DryRun bool
}

// UnaryInterceptor executes the admission check for unary RPCs.
func (i *ThrottleInterceptor) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if i.Service.ShouldThrottle(ctx, newRPCRequest(ctx, req)) {
		if !i.DryRun {
			return nil, status.Errorf(codes.ResourceExhausted, "tenant over rate limit for %v", info.FullMethod)
		}
		glog.Warningf("(DryRun) %v not rejected despite throttle verdict", info.FullMethod)
	}
	return handler(ctx, req)
}

// rpcRequest is a throttle.Request view over an inbound unary RPC.
type rpcRequest struct {
	md   metadata.MD
	id   string
	size int64
}

func newRPCRequest(ctx context.Context, req interface{}) throttle.Request {
	md, _ := metadata.FromIncomingContext(ctx)
	id := firstValue(md, requestIDKey)
	if id == "" {
		id = uuid.NewString()
	}
	var size int64 = -1
	if msg, ok := req.(proto.Message); ok {
		size = int64(proto.Size(msg))
	}
	return &rpcRequest{md: md, id: id, size: size}
}

func (r *rpcRequest) Header(name string) string {
	key := strings.ToLower(name)
	if key == "host" {
		// The HTTP/2 authority doubles as the Host header for gRPC; proxies
		// that rewrite it forward the original authority in metadata.
		if v := firstValue(r.md, ":authority"); v != "" {
			return v
		}
	}
	return firstValue(r.md, key)
}

func (r *rpcRequest) RequestID() string {
	return r.id
}

func (r *rpcRequest) ContentLength() int64 {
	return r.size
}

func firstValue(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
