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

package inventory

import (
	"errors"
	"strings"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/store"
)

// defaultStations is used for codes the station file does not cover.
//
//nolint:gochecknoglobals // read-only table
var defaultStations = map[string]string{
	"IST":    "Istanbul",
	"IZM":    "Izmir",
	"ANK":    "Ankara",
	"OZN":    "Serifali",
	"ADA":    "Adana",
	"ASR":    "Kayseri",
	"KYA":    "Konya",
	"DNZ":    "Denizli",
	"TOZN":   "Serifali",
	"TBL5":   "Hadimkoy",
	"TANK":   "Ankara",
	"TASR":   "Kayseri",
	"TAYT":   "Antalya",
	"TIZM":   "Izmir",
	"TKYA":   "Konya",
	"TCHO":   "Istanbul HQ",
	"TIST":   "Gunesli",
	"TGZT":   "Gaziantep",
	"TDNZ":   "Denizli",
	"TAJIA":  "Balikesir",
	"TADA":   "Adana",
	"TCC8":   "Catalca",
	"AJIA":   "Balikesir",
	"GZT":    "Gaziantep",
	"BTZ":    "Bursa",
	"TBTZ":   "Bursa",
	"AOE":    "Eskisehir",
	"TAOE":   "Eskisehir",
	"CC8":    "Catalca",
	"CHO":    "Istanbul HQ",
	"SAW":    "SAW",
	"TSAW":   "SAW",
	"ISTRT2": "Istanbul Airport",
	"ISTRT":  "Istanbul Airport",
}

// stationRow is one entry of station-info.json.
type stationRow struct {
	Code          models.FlexString `json:"code"`
	AlternateCode models.FlexString `json:"alternate_code"`
	Town          string            `json:"town"`
}

// StationTable maps site codes to city names.
type StationTable struct {
	cities map[string]string
}

// NewStationTable returns the built-in table overlaid with extra.
func NewStationTable(extra map[string]string) *StationTable {
	cities := make(map[string]string, len(defaultStations)+len(extra))

	for code, city := range defaultStations {
		cities[code] = city
	}

	for code, city := range extra {
		if code == "" || city == "" {
			continue
		}

		cities[code] = city
	}

	return &StationTable{cities: cities}
}

// LoadStationTable reads station-info.json and overlays it on the built-in table. Both
// code and alternate_code map to the row's town. A missing or unreadable file leaves the
// built-in table in place.
func LoadStationTable(path string, log logger.Logger) *StationTable {
	if path == "" {
		return NewStationTable(nil)
	}

	var rows []stationRow
	if err := store.ReadJSON(path, &rows); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Str("path", path).Msg("Station info file not found, using built-in table")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("Station info unreadable, using built-in table")
		}

		return NewStationTable(nil)
	}

	extra := make(map[string]string, len(rows)*2)

	for _, row := range rows {
		town := strings.TrimSpace(row.Town)
		if town == "" {
			town = models.UnknownValue
		}

		if c := strings.TrimSpace(row.Code.String()); c != "" {
			extra[c] = town
		}

		if c := strings.TrimSpace(row.AlternateCode.String()); c != "" {
			extra[c] = town
		}
	}

	log.Info().Int("records", len(rows)).Msg("Station info loaded")

	return NewStationTable(extra)
}

// MapLocationToCity returns the city for code, or "Unknown".
func (s *StationTable) MapLocationToCity(code string) string {
	if city, ok := s.cities[code]; ok {
		return city
	}

	return models.UnknownValue
}

// Len is the number of known codes.
func (s *StationTable) Len() int {
	return len(s.cities)
}
