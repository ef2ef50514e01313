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
	"regexp"
	"strings"

	"github.com/golang/glog"
)

// tenantPattern matches a 12-digit tenant account id.
var tenantPattern = regexp.MustCompile(`^\d{12}$`)

// TenantID derives the requesting tenant's account id from the request's
// Host header. Hosts look like 100000000001.search-eu-north-1.example:9200;
// the leading dot-separated segment must be exactly 12 decimal digits.
//
// A missing or empty Host header yields ("", false). Any other non-matching
// host also yields ("", false) and is logged at error level as a data-quality
// signal; it is never fatal.
func TenantID(req Request) (string, bool) {
	host := req.Header("Host")
	if host == "" {
		return "", false
	}
	leading, _, _ := strings.Cut(host, ".")
	if tenantPattern.MatchString(leading) {
		return leading, true
	}
	glog.Errorf("Could not extract tenant account id from host: %q", host)
	return "", false
}
