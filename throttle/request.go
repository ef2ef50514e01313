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
	"net/http"

	"github.com/google/uuid"
)

// Request is the read-only view of an inbound request the admission check
// needs. It is owned by the caller; the Service only reads it and never
// retains it beyond the ShouldThrottle call.
type Request interface {
	// Header returns the named header value, or "" if absent.
	Header(name string) string

	// RequestID returns a unique identifier for the request, used to
	// correlate the quota handle with the request on the subsystem side.
	RequestID() string

	// ContentLength returns the request body size in bytes. Negative means
	// unknown.
	ContentLength() int64
}

// requestIDHeader is consulted before generating a fresh request id.
const requestIDHeader = "X-Request-Id"

type httpRequest struct {
	req *http.Request
	id  string
}

// FromHTTP adapts an *http.Request for use with Service.ShouldThrottle.
// The request id is taken from the X-Request-Id header, or generated if the
// header is absent.
func FromHTTP(req *http.Request) Request {
	id := req.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	return &httpRequest{req: req, id: id}
}

func (r *httpRequest) Header(name string) string {
	// net/http promotes the Host header onto the request itself.
	if http.CanonicalHeaderKey(name) == "Host" {
		return r.req.Host
	}
	return r.req.Header.Get(name)
}

func (r *httpRequest) RequestID() string {
	return r.id
}

func (r *httpRequest) ContentLength() int64 {
	return r.req.ContentLength
}
