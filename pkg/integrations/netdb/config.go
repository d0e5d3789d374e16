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

// Package netdb talks to the NetDB device API: bearer token acquisition and the
// per-device telemetry endpoints.
package netdb

import (
	"strings"
	"time"

	"github.com/ceressa/Netinfo/pkg/models"
)

const (
	defaultDeviceType = "cisco_ios"
	defaultTokenTTL   = models.Duration(45 * time.Minute)
)

// Config holds the NetDB connection settings.
type Config struct {
	AuthURL    string          `json:"auth_url" yaml:"auth_url"`
	BaseURL    string          `json:"base_url" yaml:"base_url"`
	Username   string          `json:"username" yaml:"username"`
	Password   string          `json:"password" yaml:"password"`
	DeviceType string          `json:"device_type" yaml:"device_type"`
	TokenTTL   models.Duration `json:"token_ttl" yaml:"token_ttl"`
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.AuthURL == "" {
		return errMissingAuthURL
	}

	if c.BaseURL == "" {
		return errMissingBaseURL
	}

	if c.Username == "" {
		return errMissingUsername
	}

	if c.Password == "" {
		return errMissingPassword
	}

	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	if c.DeviceType == "" {
		c.DeviceType = defaultDeviceType
	}

	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}

	return nil
}
