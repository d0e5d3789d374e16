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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/integrations/statseeker"
	"github.com/ceressa/Netinfo/pkg/inventory"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/natsutil"
	"github.com/ceressa/Netinfo/pkg/topology"
)

const (
	defaultWorkers         = 20
	defaultTimezone        = "Europe/Istanbul"
	defaultVendorCacheSize = 4096

	defaultInventoryFile = "network_device_inventory.json"
	defaultTopologyFile  = "main_data.json"
	defaultStatusLogFile = "device_status_changes.json"
	defaultUUIDPoolFile  = "UUID_Pool.json"
	defaultLockFile      = ".netinfo.lock"
	defaultArchiveDir    = "archive"
)

// Environment variables that override the feed and NetDB credentials from the file.
const (
	EnvStatseekerUsername = "STATSEEKER_USERNAME"
	EnvStatseekerPassword = "STATSEEKER_PASSWORD"
	EnvNetDBUsername      = "NETDB_USERNAME"
	EnvNetDBPassword      = "NETDB_PASSWORD"
)

// Paths locates every artifact the reconciler reads or writes. Empty entries default
// to a file under DataDir.
type Paths struct {
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	Inventory  string `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Topology   string `json:"topology,omitempty" yaml:"topology,omitempty"`
	StatusLog  string `json:"status_log,omitempty" yaml:"status_log,omitempty"`
	UUIDPool   string `json:"uuid_pool,omitempty" yaml:"uuid_pool,omitempty"`
	ArchiveDir string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty"`
	Lock       string `json:"lock,omitempty" yaml:"lock,omitempty"`

	// Optional inputs. The embedded defaults are used when these are empty.
	LocationRules string `json:"location_rules,omitempty" yaml:"location_rules,omitempty"`
	StationTable  string `json:"station_table,omitempty" yaml:"station_table,omitempty"`
	OUIFile       string `json:"oui_file,omitempty" yaml:"oui_file,omitempty"`
}

// ApplyDefaults fills every empty artifact path from DataDir.
func (p *Paths) ApplyDefaults() {
	def := func(v *string, name string) {
		if *v == "" {
			*v = filepath.Join(p.DataDir, name)
		}
	}

	def(&p.Inventory, defaultInventoryFile)
	def(&p.Topology, defaultTopologyFile)
	def(&p.StatusLog, defaultStatusLogFile)
	def(&p.UUIDPool, defaultUUIDPoolFile)
	def(&p.ArchiveDir, defaultArchiveDir)
	def(&p.Lock, defaultLockFile)
}

// RetryConfig is the serialisable form of topology.RetryPolicy.
type RetryConfig struct {
	Attempts    int               `json:"attempts" yaml:"attempts"`
	Delays      []models.Duration `json:"delays" yaml:"delays"`
	Timeout     models.Duration   `json:"timeout" yaml:"timeout"`
	TimeoutStep models.Duration   `json:"timeout_step" yaml:"timeout_step"`
}

// Policy converts the config, taking unset fields from topology.DefaultRetryPolicy.
func (r RetryConfig) Policy() topology.RetryPolicy {
	policy := topology.DefaultRetryPolicy()

	if r.Attempts > 0 {
		policy.Attempts = r.Attempts
	}

	if r.Delays != nil {
		policy.Delays = make([]time.Duration, len(r.Delays))
		for i, d := range r.Delays {
			policy.Delays[i] = d.Std()
		}
	}

	if r.Timeout > 0 {
		policy.Timeout = r.Timeout.Std()
	}

	if r.TimeoutStep > 0 {
		policy.TimeoutStep = r.TimeoutStep.Std()
	}

	return policy
}

// Config is the reconciler configuration.
type Config struct {
	Paths      Paths              `json:"paths" yaml:"paths"`
	Statseeker statseeker.Config  `json:"statseeker" yaml:"statseeker"`
	NetDB      netdb.Config       `json:"netdb" yaml:"netdb"`
	NATS       *natsutil.Config   `json:"nats,omitempty" yaml:"nats,omitempty"`
	Logging    *logger.Config     `json:"logging,omitempty" yaml:"logging,omitempty"`
	Metrics    *logger.OTelConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	Workers             int                 `json:"workers" yaml:"workers"`
	Retry               RetryConfig         `json:"retry" yaml:"retry"`
	SwitchModels        []string            `json:"switch_models,omitempty" yaml:"switch_models,omitempty"`
	RouterModels        []string            `json:"router_models,omitempty" yaml:"router_models,omitempty"`
	TopologyDeviceTypes []models.DeviceType `json:"topology_device_types,omitempty" yaml:"topology_device_types,omitempty"`
	Timezone            string              `json:"timezone" yaml:"timezone"`
	Interval            models.Duration     `json:"interval,omitempty" yaml:"interval,omitempty"`
	VendorCacheSize     int                 `json:"vendor_cache_size,omitempty" yaml:"vendor_cache_size,omitempty"`

	location *time.Location
}

// Validate applies the credential overlay from the environment, fills defaults and
// validates every section.
func (c *Config) Validate() error {
	c.applyEnv()

	if c.Paths.DataDir == "" {
		return errMissingDataDir
	}

	c.Paths.ApplyDefaults()

	if err := c.Statseeker.Validate(); err != nil {
		return fmt.Errorf("statseeker: %w", err)
	}

	if err := c.NetDB.Validate(); err != nil {
		return fmt.Errorf("netdb: %w", err)
	}

	if c.NATS != nil {
		if err := c.NATS.Validate(); err != nil {
			return fmt.Errorf("nats: %w", err)
		}
	}

	if c.Workers < 0 {
		return errInvalidWorkers
	}

	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}

	if err := c.Retry.Policy().Validate(); err != nil {
		return fmt.Errorf("retry: %w", err)
	}

	if len(c.SwitchModels) == 0 {
		c.SwitchModels = append([]string(nil), inventory.DefaultSwitchModels...)
	}

	if len(c.RouterModels) == 0 {
		c.RouterModels = append([]string(nil), inventory.DefaultRouterModels...)
	}

	if c.TopologyDeviceTypes == nil {
		c.TopologyDeviceTypes = []models.DeviceType{models.DeviceTypeSwitch}
	}

	if len(c.TopologyDeviceTypes) == 0 {
		return errNoTopologyTypes
	}

	if c.VendorCacheSize < 0 {
		return errInvalidCacheSize
	}

	if c.VendorCacheSize == 0 {
		c.VendorCacheSize = defaultVendorCacheSize
	}

	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidTimezone, c.Timezone, err)
	}

	c.location = loc

	return nil
}

// Location is the zone used for every persisted timestamp. It is UTC until Validate
// has run.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}

	return c.location
}

func (c *Config) applyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	overlay(&c.Statseeker.Username, EnvStatseekerUsername)
	overlay(&c.Statseeker.Password, EnvStatseekerPassword)
	overlay(&c.NetDB.Username, EnvNetDBUsername)
	overlay(&c.NetDB.Password, EnvNetDBPassword)
}
