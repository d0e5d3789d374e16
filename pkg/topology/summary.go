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
	"sort"
	"time"

	"github.com/ceressa/Netinfo/pkg/models"
)

// SnapshotTimeLayout is the layout of last_whole_data_updated.
const SnapshotTimeLayout = "02.01.2006 15:04"

// Summarize assembles the topology snapshot. Traffic totals only count hosts that were
// fused; unreachable hosts are listed in Data with no ports.
func Summarize(hosts map[string]models.HostTopology, now time.Time, loc *time.Location) *models.TopologySnapshot {
	if loc == nil {
		loc = time.UTC
	}

	snap := &models.TopologySnapshot{
		LastWholeDataUpdated: now.In(loc).Format(SnapshotTimeLayout),
		SwitchTrafficSummary: make(map[string]models.TrafficSummary),
		Data:                 make(map[string]models.HostTopology, len(hosts)),
	}

	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}

	sort.Strings(names)

	var totalIn, totalOut float64

	for _, name := range names {
		host := hosts[name]
		snap.Data[name] = host

		if host.Status != models.HostStatusOK {
			continue
		}

		var in, out float64
		for _, p := range host.Ports {
			in += p.InputRateMbps
			out += p.OutputRateMbps
		}

		summary := models.TrafficSummary{InputMbps: round2(in), OutputMbps: round2(out)}
		snap.SwitchTrafficSummary[name] = summary

		totalIn += summary.InputMbps
		totalOut += summary.OutputMbps
	}

	snap.CumulatedInputMbps = round2(totalIn)
	snap.CumulatedOutputMbps = round2(totalOut)

	return snap
}
