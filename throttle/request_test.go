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

package throttle

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFromHTTP(t *testing.T) {
	body := strings.NewReader(strings.Repeat("x", 2048))
	httpReq := httptest.NewRequest("POST", "http://100000000001.aoss-idx.eu-north-1:9200/idx/_search", body)
	httpReq.Header.Set("X-Request-Id", "req-7")

	req := FromHTTP(httpReq)
	if got, want := req.Header("Host"), "100000000001.aoss-idx.eu-north-1:9200"; got != want {
		t.Errorf("Header(Host) = %q, want %q", got, want)
	}
	if got, want := req.Header("host"), "100000000001.aoss-idx.eu-north-1:9200"; got != want {
		t.Errorf("Header(host) = %q, want %q", got, want)
	}
	if got, want := req.RequestID(), "req-7"; got != want {
		t.Errorf("RequestID() = %q, want %q", got, want)
	}
	if got, want := req.ContentLength(), int64(2048); got != want {
		t.Errorf("ContentLength() = %v, want %v", got, want)
	}
	if got := req.Header("X-Nonexistent"); got != "" {
		t.Errorf("Header(X-Nonexistent) = %q, want empty", got)
	}
}

func TestFromHTTPGeneratesRequestID(t *testing.T) {
	httpReq := httptest.NewRequest("GET", "http://100000000001.example/", nil)
	req := FromHTTP(httpReq)
	if req.RequestID() == "" {
		t.Error("RequestID() empty, want generated id")
	}
	// Stable across calls on the same request.
	if a, b := req.RequestID(), req.RequestID(); a != b {
		t.Errorf("RequestID() not stable: %q != %q", a, b)
	}
}
