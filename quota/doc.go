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

// Package quota defines Turnstile's interface to the external rate-tracking
// subsystem.
//
// The rate-tracking subsystem owns distributed token/rate state and evaluates
// a named ruleset against the dimensions of each request. Turnstile consumes
// it through a deliberately narrow surface: a process-wide Client, built once
// from a Config, hands out a per-request Handle; the Handle answers a single
// throttling question, accepts a usage reconciliation, and is closed when the
// request ends.
//
// Implementations are registered by name via RegisterProvider and selected at
// runtime (see the quota_backend flag). Only the "noop" provider, which allows
// every request, is guaranteed to be present. The real engine lives outside
// this repository; tests use the in-memory fake under quota/testonly.
//
// A Handle belongs to exactly one request. It must never be shared across
// requests or goroutines, and must be closed exactly once on every exit path
// of the decision that created it. The Client, in contrast, is read-only
// shared state after construction and must be safe for concurrent use.
package quota
