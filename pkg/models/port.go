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

package models

// NeighborRelation is a presence heuristic: a port with a discovered neighbor is assumed to
// face upstream. It is not verified topology direction.
type NeighborRelation string

const (
	RelationUpstream   NeighborRelation = "upstream"
	RelationDownstream NeighborRelation = "downstream"
)

// Host topology states.
const (
	HostStatusOK          = "OK"
	HostStatusUnreachable = "Unreachable"
)

// Port is one canonical port record built from the four telemetry sources of a device.
type Port struct {
	DeviceID         string           `json:"deviceid"`
	Hostname         string           `json:"hostname"`
	InterfaceName    string           `json:"interface_name"`
	ShortName        string           `json:"short_name"`
	Description      string           `json:"description"`
	ConnectedMACs    string           `json:"connected_macs"`
	LinkStatus       string           `json:"link_status"`
	IsUp             bool             `json:"is_up"`
	ProtocolStatus   string           `json:"protocol_status"`
	VlanID           string           `json:"vlan_id"`
	VlanName         string           `json:"vlan_name"`
	Speed            string           `json:"speed"`
	Duplex           string           `json:"duplex"`
	NeighborHostname string           `json:"neighbor_hostname"`
	NeighborPort     string           `json:"neighbor_port"`
	NeighborRelation NeighborRelation `json:"neighbor_relation"`
	InputRateMbps    float64          `json:"input_rate_mbps"`
	OutputRateMbps   float64          `json:"output_rate_mbps"`
	InputPackets     string           `json:"input_packets"`
	OutputPackets    string           `json:"output_packets"`
	LastInput        string           `json:"last_input"`
	LastOutput       string           `json:"last_output"`
	LastOutputHang   string           `json:"last_output_hang"`
}

// HostTopology is the per-hostname entry of the topology snapshot.
type HostTopology struct {
	DeviceID    string `json:"deviceid"`
	LastUpdated string `json:"last_updated"`
	Status      string `json:"status"`
	Ports       []Port `json:"ports"`
}

// TrafficSummary totals the port rates of one host.
type TrafficSummary struct {
	InputMbps  float64 `json:"input_mbps"`
	OutputMbps float64 `json:"output_mbps"`
}

// TopologySnapshot is the persisted result of one topology pass.
type TopologySnapshot struct {
	LastWholeDataUpdated string                    `json:"last_whole_data_updated"`
	CumulatedInputMbps   float64                   `json:"cumulated_input_mbps"`
	CumulatedOutputMbps  float64                   `json:"cumulated_output_mbps"`
	SwitchTrafficSummary map[string]TrafficSummary `json:"switch_traffic_summary"`
	Data                 map[string]HostTopology   `json:"data"`
}
