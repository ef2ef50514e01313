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

	"github.com/golang/glog"
)

// noopClientName represents the noop quota backend.
const noopClientName = "noop"

func init() {
	if err := RegisterProvider(noopClientName, func(cfg Config) (Client, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return Noop(), nil
	}); err != nil {
		glog.Fatalf("Failed to register %q: %v", noopClientName, err)
	}
}

type noopClient struct{}

// Noop returns a noop implementation of Client. Its handles allow all
// requests without consulting any rate state.
func Noop() Client {
	return &noopClient{}
}

func (c noopClient) CreateHandle(requestID string) (Handle, error) {
	if requestID == "" {
		return nil, fmt.Errorf("empty request id")
	}
	return &noopHandle{}, nil
}

func (c noopClient) Close() error {
	return nil
}

type noopHandle struct{}

func (h noopHandle) ShouldThrottle(ctx context.Context, dims Dimensions, estimatedConsumption, unconditionalConsumption float64, behavior FailBehavior) (bool, error) {
	if err := validateConsumption(estimatedConsumption, unconditionalConsumption); err != nil {
		return false, err
	}
	return false, nil
}

func (h noopHandle) Reconcile() error {
	return nil
}

func (h noopHandle) Close() error {
	return nil
}

func validateConsumption(estimated, unconditional float64) error {
	if estimated < 0 {
		return fmt.Errorf("invalid estimatedConsumption: %v (>=0 required)", estimated)
	}
	if unconditional < 0 {
		return fmt.Errorf("invalid unconditionalConsumption: %v (>=0 required)", unconditional)
	}
	return nil
}
