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

// Package inventory joins the device state and asset feeds into the merged device list.
package inventory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
)

// Merger turns raw feed rows into classified, located and deduplicated devices.
type Merger struct {
	classifier *Classifier
	locator    *Locator
	stations   *StationTable
	logger     logger.Logger
}

// MergeStats summarises what Merge dropped.
type MergeStats struct {
	DeviceRows   int
	AssetRows    int
	MissingKey   int
	Unclassified int
	Duplicates   int
	StackMembers int
	Merged       int
}

// NewMerger wires the merger's collaborators.
func NewMerger(classifier *Classifier, locator *Locator, stations *StationTable, log logger.Logger) *Merger {
	return &Merger{
		classifier: classifier,
		locator:    locator,
		stations:   stations,
		logger:     log,
	}
}

// Merge left-joins deviceFeed with assetFeed on deviceid. Rows without a hostname or
// deviceid and rows whose model is neither a switch nor a router are dropped. Stack
// members sharing a deviceid are all kept; any other deviceid keeps the row with the
// lowest serial.
func (m *Merger) Merge(deviceFeed []models.DeviceStateRow, assetFeed []models.AssetRow) ([]models.Device, MergeStats) {
	stats := MergeStats{DeviceRows: len(deviceFeed), AssetRows: len(assetFeed)}

	assets := make(map[string][]models.AssetRow, len(assetFeed))

	for _, a := range assetFeed {
		id := a.DeviceID.String()
		if id == "" {
			continue
		}

		assets[id] = append(assets[id], a)
	}

	var single, stacked []models.Device

	for i := range deviceFeed {
		row := &deviceFeed[i]

		id := row.DeviceID.String()
		hostname := strings.TrimSpace(row.Hostname)

		if id == "" || hostname == "" {
			stats.MissingKey++

			m.logger.Debug().Str("deviceid", id).Str("hostname", hostname).Msg("Dropping row without hostname or deviceid")

			continue
		}

		joined := assets[id]
		if len(joined) == 0 {
			joined = []models.AssetRow{{}}
		}

		for _, a := range joined {
			model := strings.TrimSpace(a.Model)

			deviceType := m.classifier.Classify(model)
			if deviceType == models.DeviceTypeUnknown {
				stats.Unclassified++
				continue
			}

			d := models.Device{
				DeviceID:   id,
				Hostname:   hostname,
				IPAddress:  strings.TrimSpace(row.IPAddress),
				Serial:     strings.TrimSpace(a.Serial),
				Model:      model,
				DeviceType: deviceType,
				PingState:  strings.ToLower(strings.TrimSpace(row.PingState)),
			}

			d.Location = m.locator.ExtractLocationCode(hostname)
			d.City = m.stations.MapLocationToCity(d.Location)

			if d.IsStack() {
				stacked = append(stacked, d)
			} else {
				single = append(single, d)
			}
		}
	}

	sortDevices(single)
	sortDevices(stacked)

	out := make([]models.Device, 0, len(single)+len(stacked))

	for i := range single {
		if i > 0 && single[i].DeviceID == single[i-1].DeviceID {
			stats.Duplicates++

			m.logger.Debug().
				Str("deviceid", single[i].DeviceID).
				Str("serial", single[i].Serial).
				Msg("Dropping duplicate inventory row")

			continue
		}

		out = append(out, single[i])
	}

	out = append(out, stacked...)

	stats.StackMembers = len(stacked)
	stats.Merged = len(out)

	m.logger.Info().
		Int("device_rows", stats.DeviceRows).
		Int("asset_rows", stats.AssetRows).
		Int("missing_key", stats.MissingKey).
		Int("unclassified", stats.Unclassified).
		Int("duplicates", stats.Duplicates).
		Int("stack_members", stats.StackMembers).
		Int("merged", stats.Merged).
		Msg("Inventory merged")

	return out, stats
}

// DeviceIDs returns the set of device ids present in devices.
func DeviceIDs(devices []models.Device) map[string]struct{} {
	ids := make(map[string]struct{}, len(devices))
	for i := range devices {
		ids[devices[i].DeviceID] = struct{}{}
	}

	return ids
}

func sortDevices(devices []models.Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].DeviceID != devices[j].DeviceID {
			return lessID(devices[i].DeviceID, devices[j].DeviceID)
		}

		return devices[i].Serial < devices[j].Serial
	})
}

// lessID orders numeric ids numerically and falls back to string order.
func lessID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)

	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
