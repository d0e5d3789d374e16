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

// Package statseeker reads the device state and asset inventory feeds.
package statseeker

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ceressa/Netinfo/pkg/models"
)

const (
	defaultLimit   = 10000
	defaultTimeout = models.Duration(60 * time.Second)
)

// Config holds the feed endpoint and credentials.
type Config struct {
	BaseURL  string          `json:"base_url" yaml:"base_url"`
	Group    string          `json:"group" yaml:"group"`
	Username string          `json:"username" yaml:"username"`
	Password string          `json:"password" yaml:"password"`
	Limit    int             `json:"limit" yaml:"limit"`
	Timeout  models.Duration `json:"timeout" yaml:"timeout"`
	// CAFile is a PEM bundle used instead of the system roots.
	CAFile             string `json:"ca_file,omitempty" yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errMissingBaseURL
	}

	if c.Group == "" {
		return errMissingGroup
	}

	if c.Username == "" {
		return errMissingUsername
	}

	if c.Limit < 0 {
		return errInvalidLimit
	}

	if c.Limit == 0 {
		c.Limit = defaultLimit
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	return nil
}

// NewHTTPClient builds the *http.Client used against the feed.
func NewHTTPClient(cfg *Config) (*http.Client, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // some feed deployments use self-signed certificates
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errNoCACerts
		}

		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{
		Timeout:   cfg.Timeout.Std(),
		Transport: transport,
	}, nil
}
