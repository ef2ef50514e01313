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
	"fmt"
	"sync"

	"github.com/google/turnstile/monitoring"
)

var (
	// Metrics groups all quota-related metrics.
	// These are maintained by the quota subsystem's callers, recording their
	// interactions with the subsystem; backend implementations are encouraged
	// to define their own metrics for internal state.
	Metrics     = &m{}
	metricsOnce = sync.Once{}
)

type m struct {
	Verdicts   monitoring.Counter
	Reconciles monitoring.Counter
}

// IncVerdict records the outcome of one Handle.ShouldThrottle call. throttled
// is the verdict (meaningless unless success is true); success is false when
// the call returned an error.
func (m *m) IncVerdict(throttled, success bool) {
	if m.Verdicts == nil {
		return
	}
	m.Verdicts.Inc(fmt.Sprint(throttled), fmt.Sprint(success))
}

// IncReconcile records the outcome of one Handle.Reconcile call.
func (m *m) IncReconcile(success bool) {
	if m.Reconciles == nil {
		return
	}
	m.Reconciles.Inc(fmt.Sprint(success))
}

// InitMetrics initializes Metrics using mf to create the monitoring objects.
// May be called multiple times. If so, the first call is the one that counts.
func InitMetrics(mf monitoring.MetricFactory) {
	metricsOnce.Do(func() {
		Metrics.Verdicts = mf.NewCounter("quota_verdicts", "Number of quota verdicts obtained from the rate-tracking subsystem", "throttled", "success")
		Metrics.Reconciles = mf.NewCounter("quota_reconciles", "Number of usage reconciliations reported to the rate-tracking subsystem", "success")
	})
}
