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

// Package status detects up/down transitions between cycles and keeps the change log.
package status

import (
	"strings"
	"time"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/google/uuid"
)

const (
	// EventTimeLayout is the timestamp layout of change log entries.
	EventTimeLayout = "2006-01-02 15:04:05"
	// CheckTimeLayout is the layout of last_status_check and last_status_change.
	CheckTimeLayout = "02-01-2006 15:04:05"
)

// Detector compares a device's current ping state with its persisted record.
type Detector struct {
	logger   logger.Logger
	clock    Clock
	location *time.Location
	newID    func() string
}

// Option customises a Detector.
type Option func(*Detector)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(d *Detector) {
		d.clock = c
	}
}

// WithIDGenerator replaces the log_id generator.
func WithIDGenerator(fn func() string) Option {
	return func(d *Detector) {
		d.newID = fn
	}
}

// NewDetector returns a detector that formats timestamps in loc.
func NewDetector(loc *time.Location, log logger.Logger, opts ...Option) *Detector {
	if loc == nil {
		loc = time.UTC
	}

	d := &Detector{
		logger:   log,
		clock:    realClock{},
		location: loc,
		newID:    func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Result is the outcome of Detect for one device.
type Result struct {
	Record models.DeviceRecord
	// Event is set only when a transition is logged.
	Event *models.StateChangeEvent
	// Skipped is true when the ping state was neither up nor down.
	Skipped bool
	// Suppressed is true when a transition was seen but the last logged event
	// already recorded the new state.
	Suppressed bool
}

// Detect builds the device's record for this cycle and, on a flip relative to prev,
// a change event. last is the most recent logged event for the device, if any.
func (d *Detector) Detect(device *models.Device, prev *models.DeviceRecord, last *models.StateChangeEvent) (Result, error) {
	if device == nil {
		return Result{}, errNoDevice
	}

	rec := models.NewDeviceRecord(device)
	current := normalizeState(device.PingState)

	if !isObservable(current) {
		if prev != nil {
			rec.PreviousPingState = prev.PreviousPingState
			rec.LastStatusCheck = prev.LastStatusCheck
			rec.LastStatusChange = prev.LastStatusChange
			rec.LastKnownState = prev.LastKnownState
		}

		d.logger.Debug().
			Str("deviceid", device.DeviceID).
			Str("hostname", device.Hostname).
			Str("ping_state", current).
			Msg("Skipping device with unusable ping state")

		return Result{Record: rec, Skipped: true}, nil
	}

	rec.PingState = current

	now := d.clock.Now().In(d.location)
	checked := now.Format(CheckTimeLayout)

	previous := previousStatus(prev, current)

	rec.LastStatusCheck = checked
	rec.LastStatusChange = checked
	rec.LastKnownState = current

	if prev != nil && prev.LastStatusChange != "" {
		rec.LastStatusChange = prev.LastStatusChange
	}

	// On a down to up flip this is "down" for the recovery cycle.
	rec.PreviousPingState = previous

	result := Result{Record: rec}

	if previous == current {
		return result, nil
	}

	result.Record.LastStatusChange = checked

	if last != nil && last.NewStatus == current {
		result.Suppressed = true

		d.logger.Info().
			Str("deviceid", device.DeviceID).
			Str("hostname", device.Hostname).
			Str("status", current).
			Msg("Transition already logged, not logging again")

		return result, nil
	}

	result.Event = &models.StateChangeEvent{
		LogID:     d.newID(),
		Timestamp: now.Format(EventTimeLayout),
		DeviceID:  device.DeviceID,
		Hostname:  device.Hostname,
		Serial:    device.Serial,
		OldStatus: previous,
		NewStatus: current,
		MailSent:  false,
	}

	d.logger.Info().
		Str("deviceid", device.DeviceID).
		Str("hostname", device.Hostname).
		Str("old_status", previous).
		Str("new_status", current).
		Str("log_id", result.Event.LogID).
		Msg("Status change detected")

	return result, nil
}

// previousStatus is the last up/down state recorded for the device. A device with no
// usable history starts from its current state, so a new device never flips.
func previousStatus(prev *models.DeviceRecord, current string) string {
	if prev == nil {
		return current
	}

	if s := normalizeState(prev.LastKnownState); isObservable(s) {
		return s
	}

	if s := normalizeState(prev.PingState); isObservable(s) {
		return s
	}

	return current
}

func normalizeState(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}

func isObservable(state string) bool {
	return state == models.PingStateUp || state == models.PingStateDown
}
