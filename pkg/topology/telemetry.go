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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/models"
)

// rate accepts bits per second as a JSON number, a numeric string or null.
type rate float64

func (r *rate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("rate %s: %w", s, err)
	}

	*r = rate(v)

	return nil
}

// InterfaceDetail is one entry of the interfaces endpoint, keyed by interface name.
type InterfaceDetail struct {
	Description    string            `json:"description"`
	LinkStatus     string            `json:"link_status"`
	IsUp           models.FlexBool   `json:"is_up"`
	ProtocolStatus string            `json:"protocol_status"`
	Speed          models.FlexString `json:"speed"`
	Duplex         string            `json:"duplex"`
	InputRate      rate              `json:"input_rate"`
	OutputRate     rate              `json:"output_rate"`
	InputPackets   models.FlexString `json:"input_packets"`
	OutputPackets  models.FlexString `json:"output_packets"`
	LastInput      string            `json:"last_input"`
	LastOutput     string            `json:"last_output"`
	LastOutputHang string            `json:"last_output_hang"`
}

// VlanEntry is one VLAN with the interfaces assigned to it. Depending on the platform
// the members are listed under "interfaces", "ports" or "members".
type VlanEntry struct {
	VlanID     models.FlexString `json:"vlan_id"`
	Name       string            `json:"name"`
	Interfaces []string          `json:"interfaces"`
	Ports      []string          `json:"ports"`
	Members    []string          `json:"members"`
}

// NeighborEntry is a CDP/LLDP neighbor seen on a local interface.
type NeighborEntry struct {
	LocalPort  string `json:"local_port,omitempty"`
	Hostname   string `json:"hostname"`
	RemotePort string `json:"remote_port"`
}

// MacEntry is one row of the MAC address table.
type MacEntry struct {
	DestinationAddress string `json:"destination_address"`
	DestinationPort    string `json:"destination_port"`
}

// Telemetry is the decoded output of the four endpoints for one device.
type Telemetry struct {
	Interfaces map[string]InterfaceDetail
	Vlans      []VlanEntry
	Neighbors  map[string]NeighborEntry
	MacTable   []MacEntry
}

// DecodeTelemetry decodes the raw endpoint results. A source that does not decode is
// left empty and reported as a DataShapeError; the other sources are still decoded.
func DecodeTelemetry(raw map[netdb.Endpoint]json.RawMessage) (*Telemetry, []error) {
	var errs []error

	t := &Telemetry{}

	if err := decodeInto(netdb.EndpointInterfaces, raw[netdb.EndpointInterfaces], &t.Interfaces); err != nil {
		t.Interfaces = nil
		errs = append(errs, err)
	}

	if err := decodeInto(netdb.EndpointVlans, raw[netdb.EndpointVlans], &t.Vlans); err != nil {
		t.Vlans = nil
		errs = append(errs, err)
	}

	neighbors, err := decodeNeighbors(raw[netdb.EndpointNeighbors])
	if err != nil {
		errs = append(errs, err)
	}

	t.Neighbors = neighbors

	if err := decodeInto(netdb.EndpointMacTable, raw[netdb.EndpointMacTable], &t.MacTable); err != nil {
		t.MacTable = nil
		errs = append(errs, err)
	}

	return t, errs
}

func decodeInto(source netdb.Endpoint, raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return &DataShapeError{Source: source, Err: netdb.ErrMissingResults}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &DataShapeError{Source: source, Err: err}
	}

	return nil
}

// decodeNeighbors accepts either an object keyed by local interface or a list of
// entries carrying local_port.
func decodeNeighbors(raw json.RawMessage) (map[string]NeighborEntry, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []NeighborEntry
		if err := decodeInto(netdb.EndpointNeighbors, raw, &list); err != nil {
			return nil, err
		}

		out := make(map[string]NeighborEntry, len(list))

		for _, n := range list {
			if n.LocalPort == "" {
				continue
			}

			out[n.LocalPort] = n
		}

		return out, nil
	}

	var out map[string]NeighborEntry
	if err := decodeInto(netdb.EndpointNeighbors, raw, &out); err != nil {
		return nil, err
	}

	return out, nil
}
