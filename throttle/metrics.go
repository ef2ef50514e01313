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
	"github.com/google/turnstile/monitoring"
)

// Reasons a decision fell back to allow. Sustained growth of any of these
// counters means the quota subsystem is unhealthy even though no request is
// being rejected.
const (
	attributionFailureReason = "attribution"
	acquireFailureReason     = "acquire"
	queryFailureReason       = "query"
	reconcileFailureReason   = "reconcile"
	panicFailureReason       = "panic"
)

var (
	requestCounter        monitoring.Counter
	decisionCounter       monitoring.Counter
	allowOnFailureCounter monitoring.Counter
	decisionLatency       monitoring.Histogram
)

// InitMetrics initializes the metrics on the throttle package.
func InitMetrics(mf monitoring.MetricFactory) {
	requestCounter = mf.NewCounter("throttle_request_count", "Total number of admission checks performed")
	decisionCounter = mf.NewCounter(
		"throttle_decision_count",
		"Number of admission decisions, labeled by verdict",
		"verdict")
	allowOnFailureCounter = mf.NewCounter(
		"throttle_allow_on_failure_count",
		"Number of requests allowed because the decision failed, labeled by the step that failed",
		"reason")
	decisionLatency = mf.NewHistogram(
		"throttle_decision_latency_seconds",
		"Latency of admission decisions, in seconds")
}

func incRequestCounter() {
	if requestCounter != nil {
		requestCounter.Inc()
	}
}

func incDecisionCounter(throttled bool) {
	if decisionCounter == nil {
		return
	}
	verdict := "allow"
	if throttled {
		verdict = "throttle"
	}
	decisionCounter.Inc(verdict)
}

func incAllowOnFailureCounter(reason string) {
	if allowOnFailureCounter != nil {
		allowOnFailureCounter.Inc(reason)
	}
}

func observeDecisionLatency(seconds float64) {
	if decisionLatency != nil {
		decisionLatency.Observe(seconds)
	}
}
