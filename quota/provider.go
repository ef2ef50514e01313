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
	"flag"
	"fmt"
	"sort"
	"sync"
)

// Backend is a flag specifying which quota backend is in use.
// Only the "noop" backend is guaranteed to be present.
var Backend = flag.String("quota_backend", "noop", fmt.Sprintf("Quota backend to use. One of: %v", Providers()))

var (
	cpMu     sync.RWMutex
	cpByName map[string]NewClientFunc
)

// NewClientFunc is the signature of a function which can be registered to
// provide Client instances.
type NewClientFunc func(cfg Config) (Client, error)

// RegisterProvider registers a function that provides Client instances.
func RegisterProvider(name string, cp NewClientFunc) error {
	cpMu.Lock()
	defer cpMu.Unlock()

	if cpByName == nil {
		cpByName = make(map[string]NewClientFunc)
	}

	if _, exists := cpByName[name]; exists {
		return fmt.Errorf("quota provider %v already registered", name)
	}
	cpByName[name] = cp
	return nil
}

// Providers returns the sorted names of all registered providers.
func Providers() []string {
	cpMu.RLock()
	defer cpMu.RUnlock()

	r := []string{}
	for k := range cpByName {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// NewClientFromFlags returns a Client built by the provider selected via the
// quota_backend flag.
func NewClientFromFlags(cfg Config) (Client, error) {
	return NewClient(*Backend, cfg)
}

// NewClient returns a Client built by the named provider.
func NewClient(name string, cfg Config) (Client, error) {
	cpMu.RLock()
	f, exists := cpByName[name]
	cpMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown quota backend: %v", name)
	}
	return f(cfg)
}
