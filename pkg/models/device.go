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

import "strings"

// DeviceType classifies a device by its model family.
type DeviceType string

const (
	DeviceTypeSwitch  DeviceType = "Switch"
	DeviceTypeRouter  DeviceType = "Router"
	DeviceTypeUnknown DeviceType = "Unknown"
)

// Ping states reported by the device state feed. Anything else is treated as unknown.
const (
	PingStateUp      = "up"
	PingStateDown    = "down"
	PingStateUnknown = "unknown"
)

const (
	// UUIDNotAssigned is stored in place of a uuid when the pool had nothing left to hand out.
	UUIDNotAssigned = "UUID_NOT_ASSIGNED"
	// UnknownValue is the fallback for location, city and vendor lookups.
	UnknownValue = "Unknown"
	// NotAvailable is the default for port attributes missing from a telemetry source.
	NotAvailable = "N/A"
)

// Device is one merged inventory row. It is recomputed from the feeds every cycle.
type Device struct {
	DeviceID   string     `json:"deviceid"`
	Hostname   string     `json:"hostname"`
	IPAddress  string     `json:"ipaddress"`
	Serial     string     `json:"serial"`
	Model      string     `json:"model"`
	DeviceType DeviceType `json:"device_type"`
	PingState  string     `json:"ping_state"`
	Location   string     `json:"location"`
	City       string     `json:"city"`
	UUID       string     `json:"uuid"`
}

// IsStack reports whether the device row is one member of a multi-unit stack.
func (d *Device) IsStack() bool {
	return IsStackModel(d.Model)
}

// IsStackModel reports whether a model string denotes a stacked chassis.
func IsStackModel(model string) bool {
	return strings.Contains(strings.ToUpper(model), "STACK")
}

// DeviceRecord is the persisted form of a Device in the inventory snapshot. Besides the
// device attributes it carries the status bookkeeping that survives between cycles.
type DeviceRecord struct {
	ID FlexString `json:"id"`
	Device

	PreviousPingState string `json:"previous_ping_state,omitempty"`
	LastStatusCheck   string `json:"last_status_check,omitempty"`
	LastStatusChange  string `json:"last_status_change,omitempty"`
	// LastKnownState is the most recent up/down value seen for the device. It lets a
	// device that reported "unknown" for a while resume from its real state.
	LastKnownState string `json:"last_known_state,omitempty"`
}

// NewDeviceRecord wraps a device with empty bookkeeping.
func NewDeviceRecord(d *Device) DeviceRecord {
	return DeviceRecord{
		ID:     FlexString(d.DeviceID),
		Device: *d,
	}
}

// DeviceStateRow is one row of the device state feed.
type DeviceStateRow struct {
	ID        FlexString `json:"id"`
	DeviceID  FlexString `json:"deviceid"`
	Hostname  string     `json:"hostname"`
	IPAddress string     `json:"ipaddress"`
	PingState string     `json:"ping_state"`
}

// AssetRow is one row of the asset inventory feed.
type AssetRow struct {
	DeviceID FlexString `json:"deviceid"`
	Serial   string     `json:"serial"`
	Model    string     `json:"model"`
}
