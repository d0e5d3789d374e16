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
	"path/filepath"
	"testing"
	"time"

	"github.com/ceressa/Netinfo/pkg/inventory"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, defaultVendorCacheSize, cfg.VendorCacheSize)
	assert.Equal(t, []models.DeviceType{models.DeviceTypeSwitch}, cfg.TopologyDeviceTypes)
	assert.Equal(t, inventory.DefaultSwitchModels, cfg.SwitchModels)
	assert.Equal(t, filepath.Join(cfg.Paths.DataDir, "UUID_Pool.json"), cfg.Paths.UUIDPool)
	assert.Equal(t, filepath.Join(cfg.Paths.DataDir, "main_data.json"), cfg.Paths.Topology)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestConfigEnvOverlay(t *testing.T) {
	t.Setenv(EnvStatseekerPassword, "from-env")
	t.Setenv(EnvNetDBUsername, "netdb-env")

	cfg := testConfig(t)

	assert.Equal(t, "from-env", cfg.Statseeker.Password)
	assert.Equal(t, "netdb-env", cfg.NetDB.Username)
	assert.Equal(t, "secret", cfg.NetDB.Password)
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{name: "missing data dir", mutate: func(c *Config) { c.Paths.DataDir = "" }, want: errMissingDataDir},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, want: errInvalidWorkers},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, want: errInvalidTimezone},
		{
			name:   "empty topology types",
			mutate: func(c *Config) { c.TopologyDeviceTypes = []models.DeviceType{} },
			want:   errNoTopologyTypes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestRetryConfigPolicy(t *testing.T) {
	assert.Equal(t, topology.DefaultRetryPolicy(), RetryConfig{}.Policy())

	policy := RetryConfig{
		Attempts: 5,
		Delays:   []models.Duration{models.Duration(time.Second)},
		Timeout:  models.Duration(10 * time.Second),
	}.Policy()

	assert.Equal(t, 5, policy.Attempts)
	assert.Equal(t, []time.Duration{time.Second}, policy.Delays)
	assert.Equal(t, 10*time.Second, policy.Timeout)
	assert.Equal(t, 30*time.Second, policy.TimeoutStep)
}
