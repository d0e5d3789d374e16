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
	"math"
	"sort"
	"strings"

	"github.com/ceressa/Netinfo/pkg/models"
)

// Host identifies the device whose ports are being fused.
type Host struct {
	DeviceID string
	Hostname string
}

// Fuse builds one Port per interface of the interfaces source, joined with the VLAN,
// neighbor and MAC indexes on the normalized interface name. Interfaces whose names
// normalize to the same key are reported once. Ports are ordered by interface name.
func Fuse(
	host Host,
	interfaces map[string]InterfaceDetail,
	vlanIndex map[string]VlanInfo,
	neighbors map[string]NeighborEntry,
	macIndex map[string][]string,
) []models.Port {
	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}

	sort.Strings(names)

	ports := make([]models.Port, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		key := NormalizeInterfaceName(name)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		ports = append(ports, buildPort(host, key, interfaces[name], vlanIndex, neighbors, macIndex))
	}

	return ports
}

func buildPort(
	host Host,
	key string,
	detail InterfaceDetail,
	vlanIndex map[string]VlanInfo,
	neighbors map[string]NeighborEntry,
	macIndex map[string][]string,
) models.Port {
	port := models.Port{
		DeviceID:         host.DeviceID,
		Hostname:         host.Hostname,
		InterfaceName:    key,
		ShortName:        AbbreviateInterfaceName(key),
		Description:      detail.Description,
		ConnectedMACs:    strings.Join(macIndex[key], ", "),
		LinkStatus:       detail.LinkStatus,
		IsUp:             bool(detail.IsUp),
		ProtocolStatus:   detail.ProtocolStatus,
		VlanID:           models.NotAvailable,
		VlanName:         models.NotAvailable,
		Speed:            detail.Speed.String(),
		Duplex:           detail.Duplex,
		NeighborHostname: models.NotAvailable,
		NeighborPort:     models.NotAvailable,
		NeighborRelation: models.RelationDownstream,
		InputRateMbps:    toMbps(float64(detail.InputRate)),
		OutputRateMbps:   toMbps(float64(detail.OutputRate)),
		InputPackets:     detail.InputPackets.String(),
		OutputPackets:    detail.OutputPackets.String(),
		LastInput:        orNA(detail.LastInput),
		LastOutput:       orNA(detail.LastOutput),
		LastOutputHang:   orNA(detail.LastOutputHang),
	}

	if v, ok := vlanIndex[key]; ok {
		port.VlanID = v.ID
		port.VlanName = v.Name
	}

	if n, ok := neighbors[key]; ok {
		port.NeighborRelation = models.RelationUpstream
		port.NeighborHostname = orNA(n.Hostname)
		port.NeighborPort = orNA(n.RemotePort)
	}

	return port
}

func toMbps(bps float64) float64 {
	return round2(bps / 1_000_000)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}

	return s
}
