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

// Package testonly contains an in-memory quota.Client for tests.
package testonly

import (
	"context"
	"sync"

	"github.com/google/turnstile/quota"
)

// FakeClient is a scriptable in-memory implementation of quota.Client.
//
// The zero value is a working client whose handles allow every request.
// Errors can be injected at each step of the handle lifecycle, and the client
// keeps counts of handles created and released so tests can assert
// exactly-once release under fault injection.
type FakeClient struct {
	// Verdict is returned by every ShouldThrottle call.
	Verdict bool

	// Error injection, one per lifecycle step. Nil means the step succeeds.
	CreateErr      error
	QueryErr       error
	ReconcileErr   error
	HandleCloseErr error
	CloseErr       error

	// PanicOnQuery makes ShouldThrottle panic instead of returning, to
	// exercise callers' behavior against a misbehaving implementation.
	PanicOnQuery bool

	mu         sync.Mutex
	created    int
	released   int
	queries    int
	reconciles int
	closed     bool

	// Arguments of the most recent calls, for assertions.
	LastRequestID     string
	LastDims          quota.Dimensions
	LastEstimated     float64
	LastUnconditional float64
	LastBehavior      quota.FailBehavior
}

// CreateHandle implements quota.Client.
func (c *FakeClient) CreateHandle(requestID string) (quota.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreateErr != nil {
		return nil, c.CreateErr
	}
	c.created++
	c.LastRequestID = requestID
	return &fakeHandle{parent: c}, nil
}

// Close implements quota.Client.
func (c *FakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.CloseErr
}

// HandlesCreated returns the number of handles handed out so far.
func (c *FakeClient) HandlesCreated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// HandlesReleased returns the number of handles closed so far. Double closes
// are counted, so a leak-free caller always has HandlesReleased ==
// HandlesCreated.
func (c *FakeClient) HandlesReleased() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Queries returns the number of ShouldThrottle calls made on any handle.
func (c *FakeClient) Queries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries
}

// Reconciles returns the number of Reconcile calls made on any handle.
func (c *FakeClient) Reconciles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconciles
}

// Closed returns whether Close was called on the client.
func (c *FakeClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeHandle struct {
	parent *FakeClient
}

func (h *fakeHandle) ShouldThrottle(ctx context.Context, dims quota.Dimensions, estimated, unconditional float64, behavior quota.FailBehavior) (bool, error) {
	c := h.parent
	c.mu.Lock()
	c.queries++
	c.LastDims = dims
	c.LastEstimated = estimated
	c.LastUnconditional = unconditional
	c.LastBehavior = behavior
	c.mu.Unlock()
	if c.PanicOnQuery {
		panic("fake quota backend panic")
	}
	if c.QueryErr != nil {
		return false, c.QueryErr
	}
	return c.Verdict, nil
}

func (h *fakeHandle) Reconcile() error {
	c := h.parent
	c.mu.Lock()
	c.reconciles++
	c.mu.Unlock()
	return c.ReconcileErr
}

func (h *fakeHandle) Close() error {
	c := h.parent
	c.mu.Lock()
	c.released++
	c.mu.Unlock()
	return c.HandleCloseErr
}
