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

import "testing"

func TestEstimateConsumption_DefaultTiers(t *testing.T) {
	tests := []struct {
		desc          string
		contentLength int64
		want          float64
	}{
		{desc: "empty", contentLength: 0, want: 1.0},
		{desc: "unknownLength", contentLength: -1, want: 1.0},
		{desc: "small", contentLength: 50000, want: 1.0},
		{desc: "atBoundary", contentLength: 102400, want: 1.0},
		{desc: "justAboveBoundary", contentLength: 102401, want: 3.0},
		{desc: "large", contentLength: 200000, want: 3.0},
	}
	tiers := DefaultSizeTiers()
	for _, test := range tests {
		if got := EstimateConsumption(test.contentLength, tiers); got != test.want {
			t.Errorf("%v: EstimateConsumption(%v) = %v, want %v", test.desc, test.contentLength, got, test.want)
		}
	}
}

func TestEstimateConsumption_CustomTiers(t *testing.T) {
	tiers := []SizeTier{
		{MaxBytes: 1024, Units: 0.5},
		{MaxBytes: 10240, Units: 2.0},
		{MaxBytes: -1, Units: 8.0},
	}
	tests := []struct {
		desc          string
		contentLength int64
		want          float64
	}{
		{desc: "firstTier", contentLength: 1024, want: 0.5},
		{desc: "secondTier", contentLength: 1025, want: 2.0},
		{desc: "lastTier", contentLength: 1 << 20, want: 8.0},
	}
	for _, test := range tests {
		if got := EstimateConsumption(test.contentLength, tiers); got != test.want {
			t.Errorf("%v: EstimateConsumption(%v) = %v, want %v", test.desc, test.contentLength, got, test.want)
		}
	}
}
