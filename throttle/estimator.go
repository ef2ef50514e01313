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

// EstimateConsumption classifies contentLength into the cost model given by
// tiers (see SizeTier): the first tier whose MaxBytes bound covers the length
// wins. Unknown (negative) lengths land in the first tier.
//
// With DefaultSizeTiers a 102400-byte body costs 1.0 units and a
// 102401-byte body costs 3.0.
func EstimateConsumption(contentLength int64, tiers []SizeTier) float64 {
	for _, tier := range tiers {
		if tier.MaxBytes < 0 || contentLength <= tier.MaxBytes {
			return tier.Units
		}
	}
	// Unreachable for validated tier tables; be permissive otherwise.
	return 0
}
