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

package reconcile

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/ceressa/Netinfo/pkg/reconcile"

	metricCycles         = "netinfo_cycles_total"
	metricCycleDuration  = "netinfo_cycle_duration_seconds"
	metricDevicesMerged  = "netinfo_devices_merged_total"
	metricHostsCollected = "netinfo_topology_hosts_total"
	metricStateChanges   = "netinfo_state_changes_total"
	metricUUIDs          = "netinfo_uuid_operations_total"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	cycleCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	cycleHistogram metric.Float64Histogram
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	mergedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	hostCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	changeCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	uuidCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	var err error

	if cycleCounter, err = meter.Int64Counter(
		metricCycles,
		metric.WithDescription("Reconciliation cycles by outcome"),
	); err != nil {
		otel.Handle(err)
	}

	if cycleHistogram, err = meter.Float64Histogram(
		metricCycleDuration,
		metric.WithDescription("Wall time of a reconciliation cycle"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	}

	if mergedCounter, err = meter.Int64Counter(
		metricDevicesMerged,
		metric.WithDescription("Devices kept by the inventory merge"),
	); err != nil {
		otel.Handle(err)
	}

	if hostCounter, err = meter.Int64Counter(
		metricHostsCollected,
		metric.WithDescription("Topology hosts by terminal state"),
	); err != nil {
		otel.Handle(err)
	}

	if changeCounter, err = meter.Int64Counter(
		metricStateChanges,
		metric.WithDescription("Device state transitions by outcome"),
	); err != nil {
		otel.Handle(err)
	}

	if uuidCounter, err = meter.Int64Counter(
		metricUUIDs,
		metric.WithDescription("UUID pool operations"),
	); err != nil {
		otel.Handle(err)
	}
}

func addCount(ctx context.Context, c metric.Int64Counter, n int, key, value string) {
	if c == nil || n == 0 {
		return
	}

	c.Add(ctx, int64(n), metric.WithAttributes(attribute.String(key, value)))
}

// recordCycle exports the counters of a finished cycle.
func recordCycle(ctx context.Context, report *CycleReport) {
	meterOnce.Do(initMeter)

	addCount(ctx, mergedCounter, report.Merge.Merged, "source", "statseeker")
	addCount(ctx, hostCounter, report.Fused, "state", "fused")
	addCount(ctx, hostCounter, report.Unreachable, "state", "unreachable")
	addCount(ctx, changeCounter, report.Events, "outcome", "logged")
	addCount(ctx, changeCounter, report.Suppressed, "outcome", "suppressed")
	addCount(ctx, changeCounter, report.Published, "outcome", "published")
	addCount(ctx, uuidCounter, report.Identity.Assigned, "operation", "assigned")
	addCount(ctx, uuidCounter, report.Identity.Reclaimed, "operation", "reclaimed")
	addCount(ctx, uuidCounter, report.Identity.Exhausted, "operation", "exhausted")
}

// recordOutcome counts a cycle and its duration. outcome is "ok" or the failure reason.
func recordOutcome(ctx context.Context, outcome string, elapsed time.Duration) {
	meterOnce.Do(initMeter)

	addCount(ctx, cycleCounter, 1, "outcome", outcome)

	if cycleHistogram != nil {
		cycleHistogram.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
