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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/turnstile/quota"
)

// ErrNotRunning is returned by Start when the Service was already stopped or
// closed. The lifecycle is one-way: initialized, started, stopped, with
// closed absorbing from any state.
var ErrNotRunning = errors.New("throttle: service already stopped or closed")

type lifecycleState int

const (
	stateInitialized lifecycleState = iota
	stateStarted
	stateStopped
	stateClosed
)

// Service answers the admission question for inbound requests and manages
// the shared quota client's lifecycle. All methods are safe for concurrent
// use; decisions in flight during Stop or Close are best-effort (they may
// observe handle errors from the closing client and therefore allow).
type Service struct {
	cfg       Config
	newClient quota.NewClientFunc

	mu     sync.RWMutex
	state  lifecycleState
	client quota.Client
}

// New returns a Service that builds its quota client from the provider
// registry using cfg.QuotaBackend. The client is not built until Start.
func New(cfg Config) (*Service, error) {
	cfg = cfg.withDefaults()
	return newService(cfg, func(qcfg quota.Config) (quota.Client, error) {
		return quota.NewClient(cfg.QuotaBackend, qcfg)
	})
}

// NewWithProvider is like New but uses the supplied provider function to
// build the quota client, bypassing the registry.
func NewWithProvider(cfg Config, newClient quota.NewClientFunc) (*Service, error) {
	return newService(cfg.withDefaults(), newClient)
}

func newService(cfg Config, newClient quota.NewClientFunc) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, newClient: newClient}, nil
}

// Start builds the shared quota client. A construction failure is logged and
// leaves the feature permanently disabled for the life of the process; Start
// still returns nil so the host pipeline keeps serving. Start is idempotent
// while the Service is running and returns ErrNotRunning after Stop or Close.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateStarted:
		return nil
	case stateStopped, stateClosed:
		return ErrNotRunning
	}
	s.state = stateStarted
	if !s.cfg.Enabled {
		glog.Infof("Tenant throttling disabled by configuration")
		return nil
	}
	client, err := s.newClient(s.cfg.quotaConfig())
	if err != nil {
		// No retry: the feature stays off until the process restarts.
		glog.Warningf("Quota client unavailable, tenant throttling disabled: %v", err)
		return nil
	}
	s.client = client
	glog.Infof("Tenant throttling started: backend=%v ruleset=%v region=%v client_id=%v",
		s.cfg.QuotaBackend, s.cfg.RulesetName, s.cfg.Region, s.cfg.ClientID)
	return nil
}

// Stop closes the shared quota client if one was built. It is idempotent and
// never fails; close errors on this path are logged only. After Stop the
// Service cannot be restarted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateClosed {
		return
	}
	s.state = stateStopped
	if err := s.releaseClientLocked(); err != nil {
		glog.Warningf("Error closing quota client on stop: %v", err)
	}
}

// Close releases the shared quota client and moves the Service to its
// terminal state. Unlike Stop, a close error is returned to the caller:
// shutdown failures indicate resource leaks the host process should know
// about. Close is idempotent and safe to call if the client was never built.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.releaseClientLocked()
	s.state = stateClosed
	return err
}

func (s *Service) releaseClientLocked() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// currentClient returns the shared client, or nil when the feature is off or
// the Service is not running.
func (s *Service) currentClient() quota.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != stateStarted {
		return nil
	}
	return s.client
}

// ShouldThrottle reports whether req should be rejected to keep its tenant
// within quota. It is always safe to call: when the feature is disabled, the
// Service is not running, or anything in the decision path fails, the answer
// is false. The only potentially blocking step is the quota-subsystem query;
// callers wanting a bound on it impose a deadline via ctx.
func (s *Service) ShouldThrottle(ctx context.Context, req Request) bool {
	client := s.currentClient()
	if client == nil {
		return false
	}
	incRequestCounter()
	start := time.Now()
	throttled := s.decide(ctx, client, req)
	observeDecisionLatency(time.Since(start).Seconds())
	incDecisionCounter(throttled)
	return throttled
}

// decide runs one best-effort decision. Every failure path, including a
// panic from a misbehaving quota backend, converts to allow; the handle is
// released on all of them.
func (s *Service) decide(ctx context.Context, client quota.Client, req Request) (throttled bool) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("Throttle check panicked, allowing request: %v", r)
			incAllowOnFailureCounter(panicFailureReason)
			throttled = false
		}
	}()

	handle, err := client.CreateHandle(req.RequestID())
	if err != nil {
		glog.Warningf("Could not acquire throttle handle, allowing request: %v", err)
		incAllowOnFailureCounter(acquireFailureReason)
		return false
	}
	defer func() {
		if err := handle.Close(); err != nil {
			glog.Warningf("Error closing throttle handle: %v", err)
		}
	}()

	tenant, ok := TenantID(req)
	if !ok {
		glog.Warningf("Could not attribute request to a tenant for host: %q, allowing request", req.Header("Host"))
		incAllowOnFailureCounter(attributionFailureReason)
		return false
	}
	dims := quota.Dimensions{quota.TenantDimension: tenant}
	estimated := EstimateConsumption(req.ContentLength(), s.cfg.SizeTiers)

	// The estimate is provisional: unconditional consumption stays 0 so no
	// quota is debited before the verdict is known.
	throttled, err = handle.ShouldThrottle(ctx, dims, estimated, 0.0, quota.FailOpenLastKnownRate)
	quota.Metrics.IncVerdict(throttled, err == nil)
	if err != nil {
		glog.Warningf("Throttle check failed, allowing request: %v", err)
		incAllowOnFailureCounter(queryFailureReason)
		return false
	}

	// Report actual usage regardless of the verdict so the subsystem can
	// correct for overestimation.
	err = handle.Reconcile()
	quota.Metrics.IncReconcile(err == nil)
	if err != nil {
		glog.Warningf("Throttle reconcile failed, allowing request: %v", err)
		incAllowOnFailureCounter(reconcileFailureReason)
		return false
	}
	return throttled
}
