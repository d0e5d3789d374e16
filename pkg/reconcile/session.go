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
	"errors"
	"time"

	"github.com/ceressa/Netinfo/pkg/identity"
	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/status"
	"github.com/ceressa/Netinfo/pkg/store"
)

// Session carries the state of a single cycle: the token cache, the identity pool,
// the change log and the records persisted by the previous cycle. A new one is built
// for every cycle and dropped when it ends.
type Session struct {
	ID        string
	StartedAt time.Time
	Tokens    *netdb.CachedTokenProvider
	Registry  *identity.Registry
	Events    *status.EventLog

	previous previousRecords
	emitted  []models.StateChangeEvent
	logger   logger.Logger
}

// Emitted returns the events appended during the cycle, in emission order.
func (s *Session) Emitted() []models.StateChangeEvent {
	return s.emitted
}

// previousRecords indexes last cycle's inventory. Stack members share a device id, so
// records are keyed by device id and serial with a device id fallback.
type previousRecords struct {
	byUnit map[string]*models.DeviceRecord
	byID   map[string]*models.DeviceRecord
}

func unitKey(deviceID, serial string) string {
	return deviceID + "\x00" + serial
}

func indexRecords(records []models.DeviceRecord) previousRecords {
	p := previousRecords{
		byUnit: make(map[string]*models.DeviceRecord, len(records)),
		byID:   make(map[string]*models.DeviceRecord, len(records)),
	}

	for i := range records {
		rec := &records[i]

		id := rec.DeviceID
		if id == "" {
			id = rec.ID.String()
		}

		if id == "" {
			continue
		}

		p.byUnit[unitKey(id, rec.Serial)] = rec

		if _, ok := p.byID[id]; !ok {
			p.byID[id] = rec
		}
	}

	return p
}

func (p previousRecords) lookup(d *models.Device) *models.DeviceRecord {
	if rec, ok := p.byUnit[unitKey(d.DeviceID, d.Serial)]; ok {
		return rec
	}

	return p.byID[d.DeviceID]
}

func (p previousRecords) len() int {
	return len(p.byID)
}

// loadPrevious reads the inventory written by the last cycle. A missing file means a
// first run; a corrupt one is treated the same way after a warning.
func loadPrevious(path string, log logger.Logger) (previousRecords, error) {
	var records []models.DeviceRecord

	err := store.ReadJSON(path, &records)

	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info().Str("path", path).Msg("No previous inventory, starting fresh")
	case errors.Is(err, store.ErrCorrupt):
		log.Warn().Err(err).Str("path", path).Msg("Previous inventory unreadable, starting fresh")

		records = nil
	case err != nil:
		return previousRecords{}, err
	}

	return indexRecords(records), nil
}
