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

package interceptor

import (
	"context"
	"testing"

	"github.com/google/turnstile/quota"
	"github.com/google/turnstile/quota/testonly"
	"github.com/google/turnstile/throttle"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type fakeHandler struct {
	called bool
	resp   interface{}
	err    error
}

func (f *fakeHandler) run(ctx context.Context, req interface{}) (interface{}, error) {
	f.called = true
	return f.resp, f.err
}

func startedService(t *testing.T, fake *testonly.FakeClient) *throttle.Service {
	t.Helper()
	svc, err := throttle.NewWithProvider(throttle.Config{
		Enabled:     true,
		RulesetName: "TenantRuleSet-test",
		CacheSize:   10000,
		Region:      "eu-north-1",
		ClientID:    "node-1",
	}, func(quota.Config) (quota.Client, error) {
		return fake, nil
	})
	if err != nil {
		t.Fatalf("NewWithProvider() returned err = %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() returned err = %v", err)
	}
	return svc
}

func incomingContext(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestThrottleInterceptor_UnaryInterceptor(t *testing.T) {
	tests := []struct {
		desc         string
		fake         *testonly.FakeClient
		dryRun       bool
		ctx          context.Context
		wantCode     codes.Code
		wantHandler  bool
		wantRequests int
	}{
		{
			desc:         "allowed",
			fake:         &testonly.FakeClient{},
			ctx:          incomingContext(":authority", "100000000001.aoss-idx.eu-north-1:9200"),
			wantHandler:  true,
			wantRequests: 1,
		},
		{
			desc:         "throttled",
			fake:         &testonly.FakeClient{Verdict: true},
			ctx:          incomingContext(":authority", "100000000001.aoss-idx.eu-north-1:9200"),
			wantCode:     codes.ResourceExhausted,
			wantRequests: 1,
		},
		{
			desc:         "throttledDryRun",
			fake:         &testonly.FakeClient{Verdict: true},
			dryRun:       true,
			ctx:          incomingContext(":authority", "100000000001.aoss-idx.eu-north-1:9200"),
			wantHandler:  true,
			wantRequests: 1,
		},
		{
			desc:        "unattributableAuthority",
			fake:        &testonly.FakeClient{Verdict: true},
			ctx:         incomingContext(":authority", "internal-lb.example"),
			wantHandler: true,
		},
		{
			desc:        "noMetadata",
			fake:        &testonly.FakeClient{Verdict: true},
			ctx:         context.Background(),
			wantHandler: true,
		},
		{
			desc:         "backendFailureAllows",
			fake:         &testonly.FakeClient{Verdict: true, QueryErr: status.Error(codes.Unavailable, "backend down")},
			ctx:          incomingContext(":authority", "100000000001.aoss-idx.eu-north-1:9200"),
			wantHandler:  true,
			wantRequests: 1,
		},
	}
	for _, test := range tests {
		intercept := &ThrottleInterceptor{Service: startedService(t, test.fake), DryRun: test.dryRun}
		handler := &fakeHandler{resp: "handler response"}

		resp, err := intercept.UnaryInterceptor(test.ctx, &emptypb.Empty{}, &grpc.UnaryServerInfo{FullMethod: "/search.Search/Query"}, handler.run)
		if got := status.Code(err); got != test.wantCode {
			t.Errorf("%v: UnaryInterceptor() returned code = %v, want %v", test.desc, got, test.wantCode)
			continue
		}
		if handler.called != test.wantHandler {
			t.Errorf("%v: handler called = %v, want %v", test.desc, handler.called, test.wantHandler)
			continue
		}
		if test.wantHandler && resp != handler.resp {
			t.Errorf("%v: resp = %v, want %v", test.desc, resp, handler.resp)
		}
		if got := test.fake.Queries(); got != test.wantRequests {
			t.Errorf("%v: backend queried %v times, want %v", test.desc, got, test.wantRequests)
		}
		if created, released := test.fake.HandlesCreated(), test.fake.HandlesReleased(); created != released {
			t.Errorf("%v: %v handles created but %v released", test.desc, created, released)
		}
	}
}

func TestRPCRequestHeaders(t *testing.T) {
	ctx := incomingContext(
		":authority", "100000000001.aoss-idx.eu-north-1:9200",
		"x-request-id", "req-9",
		"x-custom", "custom-value",
	)
	req := newRPCRequest(ctx, &emptypb.Empty{})

	if got, want := req.Header("Host"), "100000000001.aoss-idx.eu-north-1:9200"; got != want {
		t.Errorf("Header(Host) = %q, want %q", got, want)
	}
	if got, want := req.Header("X-Custom"), "custom-value"; got != want {
		t.Errorf("Header(X-Custom) = %q, want %q", got, want)
	}
	if got, want := req.RequestID(), "req-9"; got != want {
		t.Errorf("RequestID() = %q, want %q", got, want)
	}
	if got := req.ContentLength(); got < 0 {
		t.Errorf("ContentLength() = %v, want >= 0 for a proto message", got)
	}
}

func TestRPCRequestHostFallback(t *testing.T) {
	ctx := incomingContext("host", "100000000001.example")
	req := newRPCRequest(ctx, &emptypb.Empty{})
	if got, want := req.Header("Host"), "100000000001.example"; got != want {
		t.Errorf("Header(Host) = %q, want %q", got, want)
	}
}

func TestRPCRequestGeneratesID(t *testing.T) {
	req := newRPCRequest(context.Background(), "not-a-proto")
	if req.RequestID() == "" {
		t.Error("RequestID() empty, want generated id")
	}
	if got := req.ContentLength(); got != -1 {
		t.Errorf("ContentLength() = %v, want -1 for a non-proto request", got)
	}
}
