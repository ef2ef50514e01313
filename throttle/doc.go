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

// Package throttle implements per-tenant admission control for a
// search-request pipeline.
//
// For each inbound request the Service identifies the requesting tenant from
// the Host header, estimates the request's resource cost from its content
// length, and asks the external rate-tracking subsystem (see package quota)
// whether the tenant is over its limit. The one rule enforced across every
// failure mode is fail-open: a defect or outage in the quota subsystem must
// never reject a request that would otherwise have been served. Throttling is
// strictly additive risk mitigation, not a point of failure.
//
// The Service is built with an explicit Config and passed to whatever
// component performs admission checks; there is no process-wide singleton.
package throttle
