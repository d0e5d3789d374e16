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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errTimeout = errors.New("i/o timeout")

const (
	interfacesJSON = `{
  "GigabitEthernet1/0/1": {"description": "ops desk", "link_status": "up", "is_up": true, "protocol_status": "up",
    "speed": "1000Mb/s", "duplex": "full", "input_rate": 1234567, "output_rate": "2500000",
    "input_packets": 12345, "output_packets": "678", "last_input": "00:00:01"},
  "GigabitEthernet1/0/2": {"link_status": "down", "is_up": false},
  "Te1/1/1": {"description": "uplink", "is_up": 1, "input_rate": 10000000, "output_rate": 5006000}
}`
	vlansJSON = `[
  {"vlan_id": 10, "name": "USERS", "interfaces": ["Gi1/0/1"]},
  {"vlan_id": "20", "name": "VOICE", "ports": ["Gi1/0/1", "Gi1/0/2"]},
  {"vlan_id": 99, "name": "EMPTY"}
]`
	neighborsJSON = `{"Te1/1/1": {"hostname": "TrIST1ccr01", "remote_port": "Te1/0/1"}}`
	macTableJSON  = `[
  {"destination_address": "00:00:0c:aa:bb:cc", "destination_port": "Gi1/0/1"},
  {"destination_address": "3c:22:fb:00:00:01", "destination_port": "Gi1/0/1"},
  {"destination_address": "", "destination_port": "Gi1/0/2"}
]`
)

func telemetryFixture() map[netdb.Endpoint]json.RawMessage {
	return map[netdb.Endpoint]json.RawMessage{
		netdb.EndpointInterfaces: json.RawMessage(interfacesJSON),
		netdb.EndpointVlans:      json.RawMessage(vlansJSON),
		netdb.EndpointNeighbors:  json.RawMessage(neighborsJSON),
		netdb.EndpointMacTable:   json.RawMessage(macTableJSON),
	}
}

type tableVendors map[string]string

func (v tableVendors) Lookup(mac string) string {
	if vendor, ok := v[mac]; ok {
		return vendor
	}

	return models.UnknownValue
}

func testPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:    3,
		Delays:      []time.Duration{time.Millisecond, 2 * time.Millisecond},
		Timeout:     time.Second,
		TimeoutStep: 0,
	}
}

func testDevice() *models.Device {
	return &models.Device{DeviceID: "100", Hostname: "TrIST1csw01", DeviceType: models.DeviceTypeSwitch}
}

func TestBuildVlanIndex(t *testing.T) {
	var vlans []VlanEntry
	require.NoError(t, json.Unmarshal([]byte(vlansJSON), &vlans))

	index := BuildVlanIndex(vlans)

	assert.Equal(t, map[string]VlanInfo{
		"GigabitEthernet1/0/1": {ID: "20", Name: "VOICE"},
		"GigabitEthernet1/0/2": {ID: "20", Name: "VOICE"},
	}, index)
}

func TestBuildVlanIndexMemberFallback(t *testing.T) {
	index := BuildVlanIndex([]VlanEntry{
		{VlanID: "30", Name: "CAMS", Members: []string{"Gi1/0/5"}},
		{VlanID: "40", Interfaces: []string{"Gi1/0/6"}, Ports: []string{"Gi1/0/7"}},
	})

	assert.Equal(t, VlanInfo{ID: "30", Name: "CAMS"}, index["GigabitEthernet1/0/5"])
	assert.Equal(t, VlanInfo{ID: "40", Name: models.NotAvailable}, index["GigabitEthernet1/0/6"])
	assert.NotContains(t, index, "GigabitEthernet1/0/7")
}

func TestBuildMacIndex(t *testing.T) {
	var entries []MacEntry
	require.NoError(t, json.Unmarshal([]byte(macTableJSON), &entries))

	t.Run("with resolver", func(t *testing.T) {
		index := BuildMacIndex(entries, tableVendors{"00:00:0c:aa:bb:cc": "Cisco Systems, Inc"})

		assert.Equal(t, map[string][]string{
			"GigabitEthernet1/0/1": {"00:00:0c:aa:bb:cc (Cisco Systems, Inc)", "3c:22:fb:00:00:01 (Unknown)"},
		}, index)
	})

	t.Run("mocked resolver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vendors := NewMockVendorResolver(ctrl)
		vendors.EXPECT().Lookup("00:00:0c:aa:bb:cc").Return("Cisco")
		vendors.EXPECT().Lookup("3c:22:fb:00:00:01").Return("")

		index := BuildMacIndex(entries, vendors)
		assert.Equal(t, []string{"00:00:0c:aa:bb:cc (Cisco)", "3c:22:fb:00:00:01 (Unknown)"},
			index["GigabitEthernet1/0/1"])
	})

	t.Run("without resolver", func(t *testing.T) {
		index := BuildMacIndex(entries, nil)
		assert.Len(t, index["GigabitEthernet1/0/1"], 2)
	})
}

func TestFuse(t *testing.T) {
	telemetry, errs := DecodeTelemetry(telemetryFixture())
	require.Empty(t, errs)

	vlanIndex := BuildVlanIndex(telemetry.Vlans)

	ports := Fuse(Host{DeviceID: "100", Hostname: "TrIST1csw01"},
		telemetry.Interfaces,
		vlanIndex,
		BuildNeighborIndex(telemetry.Neighbors),
		BuildMacIndex(telemetry.MacTable, tableVendors{}),
	)

	require.Len(t, ports, len(telemetry.Interfaces))

	byName := make(map[string]models.Port, len(ports))
	for _, p := range ports {
		byName[p.InterfaceName] = p
	}

	require.Len(t, byName, len(ports))

	for _, p := range ports {
		_, indexed := vlanIndex[p.InterfaceName]
		assert.Equal(t, indexed, p.VlanID != models.NotAvailable, p.InterfaceName)
	}

	access := byName["GigabitEthernet1/0/1"]
	assert.Equal(t, "Gi1/0/1", access.ShortName)
	assert.Equal(t, "100", access.DeviceID)
	assert.Equal(t, "TrIST1csw01", access.Hostname)
	assert.Equal(t, "ops desk", access.Description)
	assert.True(t, access.IsUp)
	assert.Equal(t, "20", access.VlanID)
	assert.Equal(t, "VOICE", access.VlanName)
	assert.Equal(t, "1000Mb/s", access.Speed)
	assert.InDelta(t, 1.23, access.InputRateMbps, 1e-9)
	assert.InDelta(t, 2.5, access.OutputRateMbps, 1e-9)
	assert.Equal(t, "12345", access.InputPackets)
	assert.Equal(t, "678", access.OutputPackets)
	assert.Equal(t, "00:00:01", access.LastInput)
	assert.Equal(t, models.NotAvailable, access.LastOutput)
	assert.Equal(t, models.RelationDownstream, access.NeighborRelation)
	assert.Equal(t, models.NotAvailable, access.NeighborHostname)
	assert.Equal(t, "00:00:0c:aa:bb:cc (Unknown), 3c:22:fb:00:00:01 (Unknown)", access.ConnectedMACs)

	uplink := byName["TenGigabitEthernet1/1/1"]
	assert.Equal(t, models.RelationUpstream, uplink.NeighborRelation)
	assert.Equal(t, "TrIST1ccr01", uplink.NeighborHostname)
	assert.Equal(t, "Te1/0/1", uplink.NeighborPort)
	assert.Equal(t, models.NotAvailable, uplink.VlanID)
	assert.True(t, uplink.IsUp)
	assert.InDelta(t, 10.0, uplink.InputRateMbps, 1e-9)
	assert.InDelta(t, 5.01, uplink.OutputRateMbps, 1e-9)
	assert.Empty(t, uplink.ConnectedMACs)

	down := byName["GigabitEthernet1/0/2"]
	assert.False(t, down.IsUp)
	assert.Equal(t, "20", down.VlanID)
}

func TestFuseCollapsesAliases(t *testing.T) {
	ports := Fuse(Host{Hostname: "h"}, map[string]InterfaceDetail{
		"Gi1/0/1":              {Description: "short"},
		"GigabitEthernet1/0/1": {Description: "long"},
	}, nil, nil, nil)

	require.Len(t, ports, 1)
	assert.Equal(t, "GigabitEthernet1/0/1", ports[0].InterfaceName)
	assert.Equal(t, "short", ports[0].Description)
}

func TestDecodeTelemetry(t *testing.T) {
	t.Run("neighbors as list", func(t *testing.T) {
		raw := telemetryFixture()
		raw[netdb.EndpointNeighbors] = json.RawMessage(
			`[{"local_port": "Te1/1/1", "hostname": "core", "remote_port": "Te1/0/1"}, {"hostname": "orphan"}]`)

		telemetry, errs := DecodeTelemetry(raw)
		require.Empty(t, errs)
		assert.Equal(t, map[string]NeighborEntry{
			"Te1/1/1": {LocalPort: "Te1/1/1", Hostname: "core", RemotePort: "Te1/0/1"},
		}, telemetry.Neighbors)
	})

	t.Run("wrong shape", func(t *testing.T) {
		raw := telemetryFixture()
		raw[netdb.EndpointInterfaces] = json.RawMessage(`["Gi1/0/1"]`)

		telemetry, errs := DecodeTelemetry(raw)
		require.Len(t, errs, 1)
		require.ErrorIs(t, errs[0], ErrDataShape)

		var shapeErr *DataShapeError
		require.ErrorAs(t, errs[0], &shapeErr)
		assert.Equal(t, netdb.EndpointInterfaces, shapeErr.Source)

		assert.Empty(t, telemetry.Interfaces)
		assert.Len(t, telemetry.Vlans, 3)
		assert.Len(t, telemetry.MacTable, 3)
	})

	t.Run("missing source", func(t *testing.T) {
		raw := telemetryFixture()
		delete(raw, netdb.EndpointMacTable)

		telemetry, errs := DecodeTelemetry(raw)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrDataShape)
		assert.Nil(t, telemetry.MacTable)
	})

	t.Run("bad rate", func(t *testing.T) {
		raw := telemetryFixture()
		raw[netdb.EndpointInterfaces] = json.RawMessage(`{"Gi1/0/1": {"input_rate": "fast"}}`)

		_, errs := DecodeTelemetry(raw)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrDataShape)
	})
}

func expectAll(fetcher *MockFetcher, hostname string, raw map[netdb.Endpoint]json.RawMessage) {
	for _, endpoint := range netdb.Endpoints() {
		fetcher.EXPECT().Fetch(gomock.Any(), hostname, endpoint).Return(raw[endpoint], nil)
	}
}

func TestCollect(t *testing.T) {
	device := testDevice()

	t.Run("all sources succeed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := NewMockFetcher(ctrl)
		expectAll(fetcher, device.Hostname, telemetryFixture())

		c, err := NewCollector(fetcher, tableVendors{}, testPolicy(), logger.NewTestLogger())
		require.NoError(t, err)

		res := c.Collect(context.Background(), device)
		require.NoError(t, res.Err)
		assert.Equal(t, StateFused, res.State)
		assert.Equal(t, models.HostStatusOK, res.Host.Status)
		assert.Equal(t, "100", res.Host.DeviceID)
		assert.Len(t, res.Host.Ports, 3)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := NewMockFetcher(ctrl)
		raw := telemetryFixture()

		gomock.InOrder(
			fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointInterfaces).Return(nil, errTimeout),
			fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointInterfaces).
				Return(raw[netdb.EndpointInterfaces], nil),
		)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointVlans).Return(raw[netdb.EndpointVlans], nil)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointNeighbors).Return(raw[netdb.EndpointNeighbors], nil)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointMacTable).Return(raw[netdb.EndpointMacTable], nil)

		c, err := NewCollector(fetcher, nil, testPolicy(), logger.NewTestLogger())
		require.NoError(t, err)

		res := c.Collect(context.Background(), device)
		require.NoError(t, res.Err)
		assert.Equal(t, StateFused, res.State)
	})

	t.Run("neighbors exhausted makes the whole device unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := NewMockFetcher(ctrl)
		raw := telemetryFixture()

		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointInterfaces).Return(raw[netdb.EndpointInterfaces], nil)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointVlans).Return(raw[netdb.EndpointVlans], nil)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointNeighbors).Return(nil, errTimeout).Times(3)

		c, err := NewCollector(fetcher, nil, testPolicy(), logger.NewTestLogger())
		require.NoError(t, err)

		res := c.Collect(context.Background(), device)
		assert.Equal(t, StateUnreachable, res.State)
		assert.Equal(t, models.HostStatusUnreachable, res.Host.Status)
		assert.Empty(t, res.Host.Ports)
		assert.NotNil(t, res.Host.Ports)

		require.ErrorIs(t, res.Err, ErrEndpointFailed)
		require.ErrorIs(t, res.Err, errTimeout)

		var endpointErr *EndpointError
		require.ErrorAs(t, res.Err, &endpointErr)
		assert.Equal(t, netdb.EndpointNeighbors, endpointErr.Endpoint)
		assert.Equal(t, 3, endpointErr.Attempts)
	})

	t.Run("auth failure is not retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := NewMockFetcher(ctrl)
		fetcher.EXPECT().Fetch(gomock.Any(), device.Hostname, netdb.EndpointInterfaces).
			Return(nil, netdb.ErrAuthFailed).Times(1)

		c, err := NewCollector(fetcher, nil, testPolicy(), logger.NewTestLogger())
		require.NoError(t, err)

		res := c.Collect(context.Background(), device)
		assert.Equal(t, StateUnreachable, res.State)
		assert.ErrorIs(t, res.Err, netdb.ErrAuthFailed)
	})

	t.Run("malformed source is fused as empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := NewMockFetcher(ctrl)
		raw := telemetryFixture()
		raw[netdb.EndpointVlans] = json.RawMessage(`{"not": "a list"}`)
		expectAll(fetcher, device.Hostname, raw)

		c, err := NewCollector(fetcher, nil, testPolicy(), logger.NewTestLogger())
		require.NoError(t, err)

		res := c.Collect(context.Background(), device)
		require.NoError(t, res.Err)
		assert.Equal(t, StateFused, res.State)
		require.Len(t, res.ShapeErrors, 1)
		assert.ErrorIs(t, res.ShapeErrors[0], ErrDataShape)

		require.Len(t, res.Host.Ports, 3)
		for _, p := range res.Host.Ports {
			assert.Equal(t, models.NotAvailable, p.VlanID)
			assert.Equal(t, models.NotAvailable, p.VlanName)
		}
	})
}

func TestCollectWithNetDBClient(t *testing.T) {
	bodies := map[string]string{
		"/device/TrIST1csw01/interfaces":        `{"results": ` + interfacesJSON + `}`,
		"/device/TrIST1csw01/vlans":             `{}`,
		"/device/TrIST1csw01/neighbors":         `{"results": ` + neighborsJSON + `}`,
		"/device/TrIST1csw01/mac-address-table": `<html>maintenance</html>`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := &netdb.Config{AuthURL: srv.URL + "/auth", BaseURL: srv.URL + "/device", Username: "u", Password: "p"}
	require.NoError(t, cfg.Validate())

	ctrl := gomock.NewController(t)
	tokens := netdb.NewMockTokenProvider(ctrl)
	tokens.EXPECT().GetAccessToken(gomock.Any()).Return("tok-1", nil).Times(4)

	client := netdb.NewClient(cfg, srv.Client(), tokens, logger.NewTestLogger())

	c, err := NewCollector(client, tableVendors{}, testPolicy(), logger.NewTestLogger())
	require.NoError(t, err)

	res := c.Collect(context.Background(), testDevice())
	require.NoError(t, res.Err)
	assert.Equal(t, StateFused, res.State)
	assert.Equal(t, models.HostStatusOK, res.Host.Status)

	require.Len(t, res.ShapeErrors, 2)

	sources := make([]netdb.Endpoint, 0, len(res.ShapeErrors))

	for _, err := range res.ShapeErrors {
		var shapeErr *DataShapeError
		require.ErrorAs(t, err, &shapeErr)
		sources = append(sources, shapeErr.Source)
	}

	assert.ElementsMatch(t, []netdb.Endpoint{netdb.EndpointVlans, netdb.EndpointMacTable}, sources)

	require.Len(t, res.Host.Ports, 3)

	for _, p := range res.Host.Ports {
		assert.Equal(t, models.NotAvailable, p.VlanID)
		assert.Empty(t, p.ConnectedMACs)
	}
}

func TestNewCollectorValidates(t *testing.T) {
	_, err := NewCollector(nil, nil, testPolicy(), logger.NewTestLogger())
	require.ErrorIs(t, err, errNilFetcher)

	ctrl := gomock.NewController(t)

	policy := testPolicy()
	policy.Attempts = 0

	_, err = NewCollector(NewMockFetcher(ctrl), nil, policy, logger.NewTestLogger())
	assert.ErrorIs(t, err, errNoAttempts)
}
