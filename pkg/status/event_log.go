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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/store"
)

// ArchiveTimeLayout is the date suffix of archive file names.
const ArchiveTimeLayout = "2006-01-02"

// EventLog is the append-only status change log. Entries loaded from disk are kept
// verbatim so fields owned by other consumers survive a rewrite.
type EventLog struct {
	entries  []json.RawMessage
	last     map[string]lastEvent
	appended int
	logger   logger.Logger
}

type lastEvent struct {
	event models.StateChangeEvent
	at    time.Time
}

// logEntry is the lenient decoding of one persisted entry.
type logEntry struct {
	LogID     string            `json:"log_id"`
	Timestamp string            `json:"timestamp"`
	DeviceID  models.FlexString `json:"deviceid"`
	Hostname  string            `json:"hostname"`
	Serial    string            `json:"serial"`
	OldStatus string            `json:"old_status"`
	NewStatus string            `json:"new_status"`
	MailSent  models.FlexBool   `json:"mail_sent"`
}

// NewEventLog returns an empty log.
func NewEventLog(log logger.Logger) *EventLog {
	return &EventLog{
		entries: []json.RawMessage{},
		last:    make(map[string]lastEvent),
		logger:  log,
	}
}

// LoadEventLog reads the log at path. A missing file yields an empty log, as does a
// corrupt one after a warning.
func LoadEventLog(path string, log logger.Logger) (*EventLog, error) {
	el := NewEventLog(log)

	var raw []json.RawMessage

	err := store.ReadJSON(path, &raw)

	switch {
	case errors.Is(err, store.ErrNotFound):
		return el, nil
	case errors.Is(err, store.ErrCorrupt):
		log.Warn().Err(err).Str("path", path).Msg("Status log unreadable, starting a new one")

		return el, nil
	case err != nil:
		return nil, err
	}

	for i, msg := range raw {
		var entry logEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping malformed status log entry")

			el.entries = append(el.entries, msg)

			continue
		}

		el.entries = append(el.entries, msg)
		el.track(models.StateChangeEvent{
			LogID:     entry.LogID,
			Timestamp: entry.Timestamp,
			DeviceID:  entry.DeviceID.String(),
			Hostname:  entry.Hostname,
			Serial:    entry.Serial,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			MailSent:  entry.MailSent,
		})
	}

	log.Debug().Int("entries", len(el.entries)).Str("path", path).Msg("Loaded status log")

	return el, nil
}

// track records ev as the latest event of its device if it is not older than the
// current one. Entries with unparsable timestamps only win over other unparsable ones.
func (el *EventLog) track(ev models.StateChangeEvent) {
	if ev.DeviceID == "" {
		return
	}

	at, _ := time.Parse(EventTimeLayout, ev.Timestamp)

	cur, ok := el.last[ev.DeviceID]
	if ok && at.Before(cur.at) {
		return
	}

	el.last[ev.DeviceID] = lastEvent{event: ev, at: at}
}

// Last returns the most recent event logged for deviceID.
func (el *EventLog) Last(deviceID string) (*models.StateChangeEvent, bool) {
	cur, ok := el.last[deviceID]
	if !ok {
		return nil, false
	}

	ev := cur.event

	return &ev, true
}

// Append adds ev to the end of the log.
func (el *EventLog) Append(ev *models.StateChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode status event %s: %w", ev.LogID, err)
	}

	el.entries = append(el.entries, data)
	el.appended++
	el.track(*ev)

	return nil
}

// Appended is the number of events added since the log was loaded.
func (el *EventLog) Appended() int {
	return el.appended
}

// Len is the total number of entries.
func (el *EventLog) Len() int {
	return len(el.entries)
}

// Save writes the whole log to path atomically.
func (el *EventLog) Save(path string) error {
	if err := store.WriteJSON(path, el.entries); err != nil {
		return fmt.Errorf("failed to save status log: %w", err)
	}

	return nil
}

// Archive copies the log to device_status_archive_<date>.json in dir and returns the
// archive path. The active log is left untouched.
func (el *EventLog) Archive(dir string, now time.Time) (string, error) {
	if len(el.entries) == 0 {
		return "", ErrEmptyLog
	}

	name := fmt.Sprintf("device_status_archive_%s.json", now.Format(ArchiveTimeLayout))
	path := filepath.Join(dir, name)

	if err := store.WriteJSON(path, el.entries); err != nil {
		return "", fmt.Errorf("failed to write status archive: %w", err)
	}

	el.logger.Info().Str("path", path).Int("entries", len(el.entries)).Msg("Status log archived")

	return path, nil
}
