/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package topology

import (
	"context"
	"encoding/json"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
)

//go:generate mockgen -destination=mock_topology.go -package=topology github.com/ceressa/Netinfo/pkg/topology Fetcher,VendorResolver

// Fetcher returns the raw results of one telemetry endpoint for a host.
type Fetcher interface {
	Fetch(ctx context.Context, hostname string, endpoint netdb.Endpoint) (json.RawMessage, error)
}

// VendorResolver maps a MAC address to its vendor. It must not fail; unknown vendors
// are reported as "Unknown".
type VendorResolver interface {
	Lookup(mac string) string
}
