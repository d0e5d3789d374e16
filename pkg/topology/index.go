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
	"fmt"
	"sort"

	"github.com/ceressa/Netinfo/pkg/models"
)

// VlanInfo is the VLAN an interface belongs to.
type VlanInfo struct {
	ID   string
	Name string
}

func (v VlanEntry) members() []string {
	switch {
	case len(v.Interfaces) > 0:
		return v.Interfaces
	case len(v.Ports) > 0:
		return v.Ports
	default:
		return v.Members
	}
}

// BuildVlanIndex inverts the per-VLAN member lists into an index keyed by normalized
// interface name. An interface listed under several VLANs keeps the last one; trunk
// membership is not modelled.
func BuildVlanIndex(vlans []VlanEntry) map[string]VlanInfo {
	index := make(map[string]VlanInfo)

	for _, v := range vlans {
		id := v.VlanID.String()
		if id == "" {
			id = models.NotAvailable
		}

		name := v.Name
		if name == "" {
			name = models.NotAvailable
		}

		for _, member := range v.members() {
			key := NormalizeInterfaceName(member)
			if key == "" {
				continue
			}

			index[key] = VlanInfo{ID: id, Name: name}
		}
	}

	return index
}

// BuildMacIndex groups the MAC table by normalized port as "mac (vendor)" strings.
// A nil resolver reports every vendor as unknown.
func BuildMacIndex(entries []MacEntry, vendors VendorResolver) map[string][]string {
	index := make(map[string][]string)

	for _, e := range entries {
		if e.DestinationPort == "" || e.DestinationAddress == "" {
			continue
		}

		vendor := models.UnknownValue
		if vendors != nil {
			if v := vendors.Lookup(e.DestinationAddress); v != "" {
				vendor = v
			}
		}

		key := NormalizeInterfaceName(e.DestinationPort)
		index[key] = append(index[key], fmt.Sprintf("%s (%s)", e.DestinationAddress, vendor))
	}

	return index
}

// BuildNeighborIndex re-keys neighbors by normalized local interface. When two raw
// names normalize to the same key the lexically greater one wins.
func BuildNeighborIndex(neighbors map[string]NeighborEntry) map[string]NeighborEntry {
	ports := make([]string, 0, len(neighbors))
	for port := range neighbors {
		ports = append(ports, port)
	}

	sort.Strings(ports)

	index := make(map[string]NeighborEntry, len(neighbors))

	for _, port := range ports {
		index[NormalizeInterfaceName(port)] = neighbors[port]
	}

	return index
}
