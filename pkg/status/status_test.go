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

package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestDetector(t *testing.T) *Detector {
	t.Helper()

	n := 0
	clock := fixedClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}

	return NewDetector(time.UTC, logger.NewTestLogger(),
		WithClock(clock),
		WithIDGenerator(func() string {
			n++
			return "log-" + string(rune('0'+n))
		}),
	)
}

func device(id, state string) *models.Device {
	return &models.Device{
		DeviceID:  id,
		Hostname:  "TrIST1csw01",
		Serial:    "FOC123",
		PingState: state,
	}
}

func record(state string) *models.DeviceRecord {
	rec := models.NewDeviceRecord(device("42", state))
	rec.LastKnownState = state
	rec.LastStatusCheck = "13-03-2025 08:00:00"
	rec.LastStatusChange = "01-03-2025 10:00:00"

	return &rec
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		prev        *models.DeviceRecord
		last        *models.StateChangeEvent
		current     string
		wantEvent   bool
		wantOld     string
		wantPrevPS  string
		wantChanged bool
		wantSkipped bool
	}{
		{
			name:       "new device never flips",
			current:    models.PingStateDown,
			wantPrevPS: models.PingStateDown,
		},
		{
			name:       "unchanged up",
			prev:       record(models.PingStateUp),
			current:    models.PingStateUp,
			wantPrevPS: models.PingStateUp,
		},
		{
			name:        "up to down",
			prev:        record(models.PingStateUp),
			current:     models.PingStateDown,
			wantEvent:   true,
			wantOld:     models.PingStateUp,
			wantPrevPS:  models.PingStateUp,
			wantChanged: true,
		},
		{
			name:        "down to up keeps down as previous",
			prev:        record(models.PingStateDown),
			current:     models.PingStateUp,
			wantEvent:   true,
			wantOld:     models.PingStateDown,
			wantPrevPS:  models.PingStateDown,
			wantChanged: true,
		},
		{
			name:        "flip already logged is suppressed",
			prev:        record(models.PingStateUp),
			last:        &models.StateChangeEvent{DeviceID: "42", NewStatus: models.PingStateDown},
			current:     models.PingStateDown,
			wantPrevPS:  models.PingStateUp,
			wantChanged: true,
		},
		{
			name:        "unknown is skipped",
			prev:        record(models.PingStateUp),
			current:     models.PingStateUnknown,
			wantSkipped: true,
			wantPrevPS:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDetector(t)

			res, err := d.Detect(device("42", tt.current), tt.prev, tt.last)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSkipped, res.Skipped)
			assert.Equal(t, tt.wantPrevPS, res.Record.PreviousPingState)

			if tt.wantEvent {
				require.NotNil(t, res.Event)
				assert.Equal(t, "log-1", res.Event.LogID)
				assert.Equal(t, tt.wantOld, res.Event.OldStatus)
				assert.Equal(t, tt.current, res.Event.NewStatus)
				assert.Equal(t, "2025-03-14 09:26:53", res.Event.Timestamp)
				assert.False(t, bool(res.Event.MailSent))
			} else {
				assert.Nil(t, res.Event)
			}

			if tt.wantSkipped {
				assert.Equal(t, tt.prev.LastStatusCheck, res.Record.LastStatusCheck)
				assert.Equal(t, tt.prev.LastKnownState, res.Record.LastKnownState)

				return
			}

			assert.Equal(t, "14-03-2025 09:26:53", res.Record.LastStatusCheck)
			assert.Equal(t, tt.current, res.Record.LastKnownState)

			switch {
			case tt.wantChanged:
				assert.Equal(t, "14-03-2025 09:26:53", res.Record.LastStatusChange)
			case tt.prev != nil:
				assert.Equal(t, tt.prev.LastStatusChange, res.Record.LastStatusChange)
			}
		})
	}
}

func TestDetectResumesAfterUnknown(t *testing.T) {
	d := newTestDetector(t)

	prev := record(models.PingStateDown)

	res, err := d.Detect(device("42", models.PingStateUnknown), prev, nil)
	require.NoError(t, err)
	require.True(t, res.Skipped)

	res, err = d.Detect(device("42", models.PingStateUp), &res.Record, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, models.PingStateDown, res.Event.OldStatus)
}

func TestDetectNormalizesPingState(t *testing.T) {
	d := newTestDetector(t)

	res, err := d.Detect(device("42", " UP "), record("DOWN"), nil)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	require.NotNil(t, res.Event)
	assert.Equal(t, models.PingStateDown, res.Event.OldStatus)
	assert.Equal(t, models.PingStateUp, res.Event.NewStatus)
	assert.Equal(t, models.PingStateUp, res.Record.PingState)
	assert.Equal(t, models.PingStateDown, res.Record.PreviousPingState)
}

func TestDetectTwoCyclesNoSpuriousEvents(t *testing.T) {
	d := newTestDetector(t)

	first, err := d.Detect(device("42", models.PingStateUp), nil, nil)
	require.NoError(t, err)

	second, err := d.Detect(device("42", models.PingStateUp), &first.Record, nil)
	require.NoError(t, err)

	assert.Nil(t, first.Event)
	assert.Nil(t, second.Event)
	assert.Equal(t, first.Record, second.Record)
}

func TestDetectNilDevice(t *testing.T) {
	_, err := newTestDetector(t).Detect(nil, nil, nil)
	assert.ErrorIs(t, err, errNoDevice)
}

func TestEventLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device_status_log.json")

	existing := `[
  {"log_id": "a", "timestamp": "2025-03-10 10:00:00", "deviceid": 42, "old_status": "up", "new_status": "down", "mail_sent": 1, "ack": "ops"},
  {"log_id": "b", "timestamp": "2025-03-09 10:00:00", "deviceid": "42", "old_status": "down", "new_status": "up", "mail_sent": 0}
]`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	el, err := LoadEventLog(path, logger.NewTestLogger())
	require.NoError(t, err)
	require.Equal(t, 2, el.Len())

	last, ok := el.Last("42")
	require.True(t, ok)
	assert.Equal(t, "a", last.LogID)
	assert.Equal(t, models.PingStateDown, last.NewStatus)

	ev := &models.StateChangeEvent{
		LogID:     "c",
		Timestamp: "2025-03-14 09:26:53",
		DeviceID:  "42",
		OldStatus: models.PingStateDown,
		NewStatus: models.PingStateUp,
	}
	require.NoError(t, el.Append(ev))
	assert.Equal(t, 1, el.Appended())

	last, _ = el.Last("42")
	assert.Equal(t, "c", last.LogID)

	require.NoError(t, el.Save(path))

	var saved []map[string]interface{}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 3)

	assert.Equal(t, "ops", saved[0]["ack"])
	assert.InDelta(t, 1, saved[0]["mail_sent"], 0)
	assert.InDelta(t, 0, saved[2]["mail_sent"], 0)
}

func TestLoadEventLogTolerant(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		el, err := LoadEventLog(filepath.Join(dir, "none.json"), logger.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, 0, el.Len())
	})

	t.Run("corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("[{"), 0o600))

		el, err := LoadEventLog(path, logger.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, 0, el.Len())
	})
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	el := NewEventLog(logger.NewTestLogger())

	_, err := el.Archive(dir, now)
	require.ErrorIs(t, err, ErrEmptyLog)

	require.NoError(t, el.Append(&models.StateChangeEvent{LogID: "x", DeviceID: "1"}))

	path, err := el.Archive(dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "device_status_archive_2025-03-14.json"), path)

	restored, err := LoadEventLog(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())
}
