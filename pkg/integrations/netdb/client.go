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

package netdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ceressa/Netinfo/pkg/logger"
)

// Endpoint names one per-device telemetry resource.
type Endpoint string

const (
	EndpointInterfaces Endpoint = "interfaces"
	EndpointVlans      Endpoint = "vlans"
	EndpointNeighbors  Endpoint = "neighbors"
	EndpointMacTable   Endpoint = "mac-address-table"
)

// Endpoints lists every endpoint needed to fuse a device's ports.
func Endpoints() []Endpoint {
	return []Endpoint{EndpointInterfaces, EndpointVlans, EndpointNeighbors, EndpointMacTable}
}

func (e Endpoint) valid() bool {
	switch e {
	case EndpointInterfaces, EndpointVlans, EndpointNeighbors, EndpointMacTable:
		return true
	}

	return false
}

// Client fetches device telemetry from NetDB.
type Client struct {
	baseURL    string
	deviceType string
	httpClient HTTPClient
	tokens     TokenProvider
	logger     logger.Logger
}

// NewClient returns a client. tokens is usually a CachedTokenProvider shared by the cycle.
func NewClient(cfg *Config, httpClient HTTPClient, tokens TokenProvider, log logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		deviceType: cfg.DeviceType,
		httpClient: httpClient,
		tokens:     tokens,
		logger:     log,
	}
}

// EndpointURL builds the request URL for hostname.
func (c *Client) EndpointURL(hostname string, endpoint Endpoint) string {
	return fmt.Sprintf("%s%s/%s?device_type=%s",
		c.baseURL, url.PathEscape(hostname), endpoint, url.QueryEscape(c.deviceType))
}

type resultsEnvelope struct {
	Results json.RawMessage `json:"results"`
}

// Fetch returns the raw "results" member of one endpoint's response. Only transport
// failures and non-200 statuses are errors. A 200 body that is not a JSON object is
// returned as is, and a missing or null "results" member yields nil, so the decoder
// sees an unusable source rather than a failed endpoint.
func (c *Client) Fetch(ctx context.Context, hostname string, endpoint Endpoint) (json.RawMessage, error) {
	if hostname == "" {
		return nil, errEmptyHostname
	}

	if !endpoint.valid() {
		return nil, fmt.Errorf("%w: %s", errUnknownEndpoint, endpoint)
	}

	token, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.EndpointURL(hostname, endpoint), http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(interface{ InvalidateToken() }); ok {
				inv.InvalidateToken()
			}
		}

		return nil, fmt.Errorf("%w: %d from %s for %s, response: %s",
			ErrUnexpectedStatus, resp.StatusCode, endpoint, hostname, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s for %s: %w", endpoint, hostname, err)
	}

	var env resultsEnvelope

	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Warn().
			Err(err).
			Str("hostname", hostname).
			Str("endpoint", string(endpoint)).
			Msg("Response is not a results envelope, passing the body through")

		return body, nil
	}

	if len(env.Results) == 0 || string(env.Results) == "null" {
		c.logger.Warn().
			Str("hostname", hostname).
			Str("endpoint", string(endpoint)).
			Msg("Response has no results")

		return nil, nil
	}

	c.logger.Debug().
		Str("hostname", hostname).
		Str("endpoint", string(endpoint)).
		Int("bytes", len(env.Results)).
		Msg("Fetched endpoint")

	return env.Results, nil
}
