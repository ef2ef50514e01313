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

package quota

import (
	"context"
	"fmt"
)

// TenantDimension is the dimension name under which the requesting tenant's
// account id is reported to the rate-tracking subsystem. The ruleset consumed
// by the subsystem keys its per-tenant limits on this name.
const TenantDimension = "aws-account"

// Dimensions scope a throttling decision. Keys are dimension names, values
// the attribute of the current request for that dimension (e.g.,
// TenantDimension -> "100000000001").
type Dimensions map[string]string

// FailBehavior instructs the rate-tracking subsystem on what to do when it
// cannot determine a current rate for the requested dimensions (cache miss,
// backend partition, etc).
type FailBehavior int

const (
	// FailOpenLastKnownRate evaluates against the last rate known for the
	// dimensions, or allows the request if no rate was ever known. This is
	// the only behavior the admission path uses: the subsystem must never
	// become a single point of failure for availability.
	FailOpenLastKnownRate FailBehavior = iota

	// FailClosed denies the request when no rate can be determined.
	FailClosed
)

// String returns the name of the FailBehavior.
func (fb FailBehavior) String() string {
	switch fb {
	case FailOpenLastKnownRate:
		return "LAST_KNOWN_RATE_OR_FAIL_OPEN"
	case FailClosed:
		return "FAIL_CLOSED"
	default:
		return fmt.Sprintf("FailBehavior(%d)", int(fb))
	}
}

// Config carries the parameters required to construct a Client. It is set
// once at construction and never mutated afterwards.
type Config struct {
	// RulesetName names the ruleset, owned by the rate-tracking subsystem,
	// that defines the per-dimension limits to evaluate.
	RulesetName string

	// CacheSize bounds the subsystem's client-side rate cache, in entries.
	CacheSize int

	// Region is the deployment region the subsystem should resolve state in.
	Region string

	// ClientID identifies this process to the subsystem, typically the host
	// name of the serving node.
	ClientID string

	// AssumeRole is an optional credential reference used by providers that
	// authenticate against a remote control plane.
	AssumeRole string
}

// Validate returns an error if cfg is missing required fields.
func (cfg Config) Validate() error {
	switch {
	case cfg.RulesetName == "":
		return fmt.Errorf("quota: RulesetName required")
	case cfg.Region == "":
		return fmt.Errorf("quota: Region required")
	case cfg.ClientID == "":
		return fmt.Errorf("quota: ClientID required")
	case cfg.CacheSize <= 0:
		return fmt.Errorf("quota: invalid CacheSize: %v (>0 required)", cfg.CacheSize)
	}
	return nil
}

// Client is the shared, process-wide connection to the rate-tracking
// subsystem. Implementations must be safe for concurrent use by many
// request-handling goroutines.
type Client interface {
	// CreateHandle acquires a Handle scoped to a single request, identified
	// by requestID for correlation on the subsystem side.
	CreateHandle(requestID string) (Handle, error)

	// Close releases the connection. Errors indicate resource leaks the host
	// process should know about.
	Close() error
}

// Handle represents one quota-subsystem interaction, scoped to one request.
type Handle interface {
	// ShouldThrottle evaluates the ruleset for the given dimensions and
	// returns true if the request should be rejected. estimatedConsumption is
	// the provisional cost of the request; unconditionalConsumption is
	// debited regardless of the verdict and is 0 when the estimate is purely
	// provisional. behavior selects the failure policy when no rate can be
	// determined.
	ShouldThrottle(ctx context.Context, dims Dimensions, estimatedConsumption, unconditionalConsumption float64, behavior FailBehavior) (bool, error)

	// Reconcile reports actual usage back to the subsystem, letting it
	// correct for overestimation in the provisional cost.
	Reconcile() error

	// Close releases the handle. Must be called exactly once.
	Close() error
}
