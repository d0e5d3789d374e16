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
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
)

// Result is the terminal outcome for one device.
type Result struct {
	Host  models.HostTopology
	State State
	// Err is set when State is StateUnreachable.
	Err error
	// ShapeErrors lists sources that were fetched but could not be decoded. They were
	// fused as empty.
	ShapeErrors []error
}

// Collector fetches, decodes and fuses the telemetry of single devices. It is safe for
// concurrent use as long as its collaborators are.
type Collector struct {
	fetcher Fetcher
	vendors VendorResolver
	policy  RetryPolicy
	logger  logger.Logger
	now     func() time.Time
}

// NewCollector returns a collector.
func NewCollector(fetcher Fetcher, vendors VendorResolver, policy RetryPolicy, log logger.Logger) (*Collector, error) {
	if fetcher == nil {
		return nil, errNilFetcher
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &Collector{
		fetcher: fetcher,
		vendors: vendors,
		policy:  policy,
		logger:  log,
		now:     time.Now,
	}, nil
}

// Collect runs one device from PENDING to FUSED or UNREACHABLE. All four endpoints must
// be fetched; otherwise the host is reported unreachable with no ports. A payload that
// does not decode only empties its own source.
func (c *Collector) Collect(ctx context.Context, device *models.Device) Result {
	run := &deviceRun{state: StatePending}
	host := Host{DeviceID: device.DeviceID, Hostname: device.Hostname}

	_ = run.advance(StateFetching)

	raw := make(map[netdb.Endpoint]json.RawMessage, 4)

	for _, endpoint := range netdb.Endpoints() {
		data, err := c.fetchWithRetry(ctx, device.Hostname, endpoint)
		if err != nil {
			return c.unreachable(run, host, err)
		}

		raw[endpoint] = data
	}

	telemetry, shapeErrs := DecodeTelemetry(raw)
	for _, err := range shapeErrs {
		c.logger.Warn().
			Err(err).
			Str("hostname", device.Hostname).
			Msg("Malformed telemetry, using an empty result for the source")
	}

	ports := Fuse(host,
		telemetry.Interfaces,
		BuildVlanIndex(telemetry.Vlans),
		BuildNeighborIndex(telemetry.Neighbors),
		BuildMacIndex(telemetry.MacTable, c.vendors),
	)

	_ = run.advance(StateFused)

	c.logger.Debug().
		Str("hostname", device.Hostname).
		Int("ports", len(ports)).
		Int("vlans", len(telemetry.Vlans)).
		Msg("Device fused")

	return Result{
		Host: models.HostTopology{
			DeviceID:    device.DeviceID,
			LastUpdated: c.now().Format(time.RFC3339),
			Status:      models.HostStatusOK,
			Ports:       ports,
		},
		State:       run.state,
		ShapeErrors: shapeErrs,
	}
}

func (c *Collector) unreachable(run *deviceRun, host Host, err error) Result {
	_ = run.advance(StateUnreachable)

	c.logger.Warn().
		Err(err).
		Str("hostname", host.Hostname).
		Msg("Device unreachable, no ports recorded this cycle")

	return Result{
		Host: models.HostTopology{
			DeviceID:    host.DeviceID,
			LastUpdated: c.now().Format(time.RFC3339),
			Status:      models.HostStatusUnreachable,
			Ports:       []models.Port{},
		},
		State: run.state,
		Err:   err,
	}
}

// fetchWithRetry makes up to policy.Attempts attempts, each with its own growing timeout.
func (c *Collector) fetchWithRetry(ctx context.Context, hostname string, endpoint netdb.Endpoint) (json.RawMessage, error) {
	attempt := 0

	operation := func() (json.RawMessage, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.policy.AttemptTimeout(attempt))
		defer cancel()

		attempt++

		data, err := c.fetcher.Fetch(attemptCtx, hostname, endpoint)
		if err != nil {
			if errors.Is(err, netdb.ErrAuthFailed) {
				return nil, backoff.Permanent(err)
			}

			return nil, err
		}

		return data, nil
	}

	notify := func(err error, next time.Duration) {
		c.logger.Warn().
			Err(err).
			Str("hostname", hostname).
			Str("endpoint", string(endpoint)).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("Endpoint fetch failed, retrying")
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&scheduleBackOff{delays: c.policy.Delays}),
		backoff.WithMaxTries(uint(c.policy.Attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return nil, &EndpointError{Hostname: hostname, Endpoint: endpoint, Attempts: attempt, Err: err}
	}

	return data, nil
}
