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

package natsutil

import (
	"errors"
	"time"

	"github.com/ceressa/Netinfo/pkg/models"
)

const (
	defaultStream  = "NETINFO_EVENTS"
	defaultSubject = "netinfo.events.state"
	defaultTimeout = models.Duration(5 * time.Second)
)

var (
	// ErrMTLSRequired is returned when client certificates are missing from a TLS config.
	ErrMTLSRequired = errors.New("mtls security required")
	// ErrCAParsingFailed is returned when CA certificate cannot be parsed
	ErrCAParsingFailed = errors.New("failed to parse CA certificate")

	errEmptySubject = errors.New("nats subject is empty")
)

// TLSFiles are the PEM files used for mutual TLS.
type TLSFiles struct {
	CAFile     string `json:"ca_file" yaml:"ca_file"`
	CertFile   string `json:"cert_file" yaml:"cert_file"`
	KeyFile    string `json:"key_file" yaml:"key_file"`
	ServerName string `json:"server_name,omitempty" yaml:"server_name,omitempty"`
}

// Config selects the NATS server and the stream events go to. Publication is disabled
// when URL is empty.
type Config struct {
	URL       string          `json:"url" yaml:"url"`
	Domain    string          `json:"domain,omitempty" yaml:"domain,omitempty"`
	Stream    string          `json:"stream" yaml:"stream"`
	Subject   string          `json:"subject" yaml:"subject"`
	CredsFile string          `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	TLS       *TLSFiles       `json:"tls,omitempty" yaml:"tls,omitempty"`
	Timeout   models.Duration `json:"timeout" yaml:"timeout"`
}

// Enabled reports whether events should be published.
func (c *Config) Enabled() bool {
	return c != nil && c.URL != ""
}

// Validate fills defaults.
func (c *Config) Validate() error {
	if c.Stream == "" {
		c.Stream = defaultStream
	}

	if c.Subject == "" {
		c.Subject = defaultSubject
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	return nil
}
