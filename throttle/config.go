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
	"fmt"
	"os"

	"github.com/google/turnstile/quota"
)

// SizeTier maps request content lengths up to MaxBytes (inclusive) to a
// consumption cost in abstract units.
type SizeTier struct {
	// MaxBytes is the inclusive upper bound of the tier. Negative means
	// unbounded; the last tier must be unbounded.
	MaxBytes int64

	// Units is the estimated consumption charged for requests in this tier.
	Units float64
}

// DefaultSizeTiers is the stock two-tier cost model: 1 unit for request
// bodies up to 100 KiB, 3 units above that.
func DefaultSizeTiers() []SizeTier {
	return []SizeTier{
		{MaxBytes: 100 * 1024, Units: 1.0},
		{MaxBytes: -1, Units: 3.0},
	}
}

// Config carries everything the Service needs. It is set once at
// construction and never mutated. Deployment-specific identifiers (ruleset,
// region, role) are injected here rather than compiled in.
type Config struct {
	// Enabled turns the admission check on. When false the Service never
	// constructs a quota client and every decision is allow.
	Enabled bool

	// QuotaBackend names the registered quota provider to build the shared
	// client from. Empty means the value of the quota_backend flag.
	QuotaBackend string

	// RulesetName, CacheSize, Region and AssumeRole are passed through to
	// the quota client; see quota.Config.
	RulesetName string
	CacheSize   int
	Region      string
	AssumeRole  string

	// ClientID identifies this process to the quota subsystem. Empty means
	// the local host name.
	ClientID string

	// SizeTiers is the estimator's cost model, ordered by ascending
	// MaxBytes with an unbounded final tier. Nil means DefaultSizeTiers.
	SizeTiers []SizeTier
}

// withDefaults returns a copy of cfg with empty optional fields filled in.
func (cfg Config) withDefaults() Config {
	if cfg.ClientID == "" {
		if hostname, err := os.Hostname(); err == nil {
			cfg.ClientID = hostname
		} else {
			cfg.ClientID = "turnstile-node"
		}
	}
	if cfg.QuotaBackend == "" {
		cfg.QuotaBackend = *quota.Backend
	}
	if cfg.SizeTiers == nil {
		cfg.SizeTiers = DefaultSizeTiers()
	}
	return cfg
}

// Validate returns an error if cfg cannot produce a working Service.
// Quota-related fields are only checked when the feature is enabled.
func (cfg Config) Validate() error {
	if err := validateTiers(cfg.SizeTiers); err != nil {
		return err
	}
	if !cfg.Enabled {
		return nil
	}
	return cfg.quotaConfig().Validate()
}

func validateTiers(tiers []SizeTier) error {
	if tiers == nil {
		return nil
	}
	if len(tiers) == 0 {
		return fmt.Errorf("throttle: empty SizeTiers")
	}
	prev := int64(-1)
	for i, tier := range tiers {
		last := i == len(tiers)-1
		if tier.Units < 0 {
			return fmt.Errorf("throttle: SizeTiers[%d]: negative Units: %v", i, tier.Units)
		}
		if tier.MaxBytes < 0 {
			if !last {
				return fmt.Errorf("throttle: SizeTiers[%d]: unbounded tier before the end", i)
			}
			continue
		}
		if last {
			return fmt.Errorf("throttle: final SizeTier must be unbounded (MaxBytes < 0)")
		}
		if tier.MaxBytes <= prev {
			return fmt.Errorf("throttle: SizeTiers[%d]: MaxBytes %v not ascending", i, tier.MaxBytes)
		}
		prev = tier.MaxBytes
	}
	return nil
}

func (cfg Config) quotaConfig() quota.Config {
	return quota.Config{
		RulesetName: cfg.RulesetName,
		CacheSize:   cfg.CacheSize,
		Region:      cfg.Region,
		ClientID:    cfg.ClientID,
		AssumeRole:  cfg.AssumeRole,
	}
}
