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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMerger(t *testing.T) *Merger {
	t.Helper()

	classifier, err := NewClassifier(DefaultSwitchModels, DefaultRouterModels)
	require.NoError(t, err)

	rules, err := DefaultLocationRules()
	require.NoError(t, err)

	locator, err := NewLocator(rules, logger.NewTestLogger())
	require.NoError(t, err)

	return NewMerger(classifier, locator, NewStationTable(nil), logger.NewTestLogger())
}

func decodeFeeds(t *testing.T, devices, assets string) ([]models.DeviceStateRow, []models.AssetRow) {
	t.Helper()

	var d []models.DeviceStateRow
	require.NoError(t, json.Unmarshal([]byte(devices), &d))

	var a []models.AssetRow
	require.NoError(t, json.Unmarshal([]byte(assets), &a))

	return d, a
}

func TestMerge(t *testing.T) {
	devices, assets := decodeFeeds(t, `[
		{"id": 1, "deviceid": 300, "hostname": "TrISTcsw01", "ipaddress": "10.0.0.1", "ping_state": "UP"},
		{"id": 2, "deviceid": 100, "hostname": "TrANKsw01", "ipaddress": "10.0.0.2", "ping_state": "down"},
		{"id": 3, "deviceid": 200, "hostname": "TrIZMrtr01", "ipaddress": "10.0.0.3", "ping_state": "up"},
		{"id": 4, "deviceid": 400, "hostname": "TrADAsw01", "ipaddress": "10.0.0.4", "ping_state": "up"},
		{"id": 5, "deviceid": 500, "hostname": "", "ipaddress": "10.0.0.5", "ping_state": "up"},
		{"id": 6, "deviceid": 600, "hostname": "TrKYAsw01", "ipaddress": "10.0.0.6", "ping_state": "up"},
		{"id": 7, "deviceid": 700, "hostname": "TrDNZsw01", "ipaddress": "10.0.0.7", "ping_state": "unknown"}
	]`, `[
		{"deviceid": 300, "serial": "FOC2", "model": "C9300-48P"},
		{"deviceid": 300, "serial": "FOC1", "model": "C9300-48P"},
		{"deviceid": 100, "serial": "FOC9", "model": "WS-C2960X-24"},
		{"deviceid": 200, "serial": "FGL1", "model": "ISR4351/K9"},
		{"deviceid": 400, "serial": "AP01", "model": "AIR-AP2802"},
		{"deviceid": 500, "serial": "FOC5", "model": "C9500"},
		{"deviceid": "700", "serial": "S2", "model": "C9300 STACK"},
		{"deviceid": "700", "serial": "S1", "model": "C9300 STACK"}
	]`)

	merged, stats := newTestMerger(t).Merge(devices, assets)

	got := make([]string, 0, len(merged))
	for _, d := range merged {
		got = append(got, d.DeviceID+"/"+d.Serial)
	}

	// 400 has an unknown model, 500 has no hostname, 600 has no asset row
	assert.Equal(t, []string{"100/FOC9", "200/FGL1", "300/FOC1", "700/S1", "700/S2"}, got)
	assert.Equal(t, 1, stats.MissingKey)
	assert.Equal(t, 2, stats.Unclassified)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 2, stats.StackMembers)
	assert.Equal(t, 5, stats.Merged)

	byID := map[string]models.Device{}
	for _, d := range merged {
		byID[d.DeviceID] = d
	}

	assert.Equal(t, models.DeviceTypeSwitch, byID["100"].DeviceType)
	assert.Equal(t, models.DeviceTypeRouter, byID["200"].DeviceType)
	assert.Equal(t, "up", byID["300"].PingState)
	assert.Equal(t, "IST", byID["300"].Location)
	assert.Equal(t, "Istanbul", byID["300"].City)
	assert.Equal(t, "ANK", byID["100"].Location)
	assert.Equal(t, "Ankara", byID["100"].City)
	assert.Equal(t, "unknown", byID["700"].PingState)

	// TrIZMrtr01 matches no rule
	assert.Equal(t, models.UnknownValue, byID["200"].Location)
	assert.Equal(t, models.UnknownValue, byID["200"].City)
}

func TestMergeIsDeterministic(t *testing.T) {
	devices, assets := decodeFeeds(t, `[
		{"deviceid": 2, "hostname": "TrISTsw02", "ping_state": "up"},
		{"deviceid": 10, "hostname": "TrISTsw10", "ping_state": "up"},
		{"deviceid": 1, "hostname": "TrISTsw01", "ping_state": "up"}
	]`, `[
		{"deviceid": 10, "serial": "B", "model": "C9300"},
		{"deviceid": 1, "serial": "A", "model": "C9300"},
		{"deviceid": 2, "serial": "C", "model": "C9300"}
	]`)

	m := newTestMerger(t)
	first, _ := m.Merge(devices, assets)
	second, _ := m.Merge(devices, assets)

	require.Equal(t, first, second)
	assert.Equal(t, "1", first[0].DeviceID)
	assert.Equal(t, "2", first[1].DeviceID)
	assert.Equal(t, "10", first[2].DeviceID)
}

func TestClassifier(t *testing.T) {
	c, err := NewClassifier(DefaultSwitchModels, DefaultRouterModels)
	require.NoError(t, err)

	tests := []struct {
		model string
		want  models.DeviceType
	}{
		{"C9300L-48T-4G", models.DeviceTypeSwitch},
		{"WS-C3850-24T", models.DeviceTypeSwitch},
		{"ISR4451-X/K9", models.DeviceTypeRouter},
		{"C8300-1N1S", models.DeviceTypeRouter},
		{"AIR-CAP3702I", models.DeviceTypeUnknown},
		{"", models.DeviceTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.model))
		})
	}

	_, err = NewClassifier([]string{"C9300"}, []string{"C9300"})
	require.ErrorIs(t, err, errOverlappingFamilies)

	_, err = NewClassifier([]string{" "}, nil)
	require.ErrorIs(t, err, errEmptyFamily)
}

func TestExtractLocationCode(t *testing.T) {
	rules, err := DefaultLocationRules()
	require.NoError(t, err)

	l, err := NewLocator(rules, logger.NewTestLogger())
	require.NoError(t, err)

	tests := []struct {
		hostname string
		code     string
		rule     string
	}{
		{"TrISTcsw01", "IST", "network-device"},
		{"TrANKsw02", "ANK", "network-device"},
		{"trizmttr01", "izm", "network-device"},
		{"TrTOZNcsw01.example.net", "TOZN", "network-device"},
		{"TrTOZN-TSEGS01", "TOZN", "ap-tseg"},
		{"TrTozNSEG01", "TOZN", "ap-seg"},
		{"TrISTRT2-TSEG01", "ISTRT2", "ap-tseg"},
		{"NoMatchHere", models.UnknownValue, ""},
		{"", models.UnknownValue, ""},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			code, rule := l.Match(tt.hostname)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.code, l.ExtractLocationCode(tt.hostname))
		})
	}
}

func TestNewLocatorValidation(t *testing.T) {
	log := logger.NewTestLogger()

	_, err := NewLocator(nil, log)
	require.ErrorIs(t, err, errNoRules)

	_, err = NewLocator([]LocationRule{{Pattern: "(x)"}}, log)
	require.ErrorIs(t, err, errRuleName)

	_, err = NewLocator([]LocationRule{{Name: "a", Pattern: "x"}}, log)
	require.ErrorIs(t, err, errRuleNoCapture)

	_, err = NewLocator([]LocationRule{{Name: "a", Pattern: "(x"}}, log)
	require.ErrorIs(t, err, errInvalidPattern)

	_, err = NewLocator([]LocationRule{{Name: "a", Pattern: "(x)"}, {Name: "a", Pattern: "(y)"}}, log)
	require.ErrorIs(t, err, errDuplicateRule)
}

func TestLoadLocationRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: prefix\n    pattern: '^([a-z]{3})-'\n    uppercase: true\n"), 0o600))

	rules, err := LoadLocationRules(path)
	require.NoError(t, err)

	l, err := NewLocator(rules, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "ESB", l.ExtractLocationCode("esb-core-01"))

	_, err = LoadLocationRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o600))

	_, err = LoadLocationRules(empty)
	require.ErrorIs(t, err, errNoRules)
}

func TestStationTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station-info.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"code": "IST", "alternate_code": "TIST", "town": "Istanbul Europe"},
		{"code": "ESB", "town": "Ankara Esenboga"},
		{"code": 123, "town": ""}
	]`), 0o600))

	table := LoadStationTable(path, logger.NewTestLogger())

	assert.Equal(t, "Istanbul Europe", table.MapLocationToCity("IST"))
	assert.Equal(t, "Istanbul Europe", table.MapLocationToCity("TIST"))
	assert.Equal(t, "Ankara Esenboga", table.MapLocationToCity("ESB"))
	assert.Equal(t, models.UnknownValue, table.MapLocationToCity("123"))
	assert.Equal(t, "Izmir", table.MapLocationToCity("IZM"))
	assert.Equal(t, models.UnknownValue, table.MapLocationToCity("XYZ"))
	assert.Equal(t, models.UnknownValue, table.MapLocationToCity(models.UnknownValue))
}

func TestStationTableFallsBack(t *testing.T) {
	dir := t.TempDir()

	missing := LoadStationTable(filepath.Join(dir, "missing.json"), logger.NewTestLogger())
	assert.Equal(t, "Adana", missing.MapLocationToCity("ADA"))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"oops"`), 0o600))

	corrupt := LoadStationTable(bad, logger.NewTestLogger())
	assert.Equal(t, NewStationTable(nil).Len(), corrupt.Len())
}
