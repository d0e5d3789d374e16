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

package statseeker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
)

const (
	deviceFields    = "id,deviceid,hostname,ipaddress,ping_state"
	inventoryFields = "deviceid,serial,model"
)

// Client fetches the two inventory feeds.
type Client struct {
	cfg        *Config
	httpClient HTTPClient
	logger     logger.Logger
}

// NewClient returns a feed client. cfg must have been validated.
func NewClient(cfg *Config, httpClient HTTPClient, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// objectsResponse is the envelope shared by every cdt_* resource.
type objectsResponse[T any] struct {
	Data struct {
		Objects []struct {
			Data []T `json:"data"`
		} `json:"objects"`
	} `json:"data"`
}

// FeedURL builds the request URL for a cdt resource.
func (c *Client) FeedURL(resource, fields string) string {
	return fmt.Sprintf("%scdt_%s?fields=%s&groups=%s&links=none&limit=%d",
		c.cfg.BaseURL, resource, fields, url.QueryEscape(c.cfg.Group), c.cfg.Limit)
}

// FetchDevices returns the device state feed.
func (c *Client) FetchDevices(ctx context.Context) ([]models.DeviceStateRow, error) {
	return fetchObjects[models.DeviceStateRow](ctx, c, c.FeedURL("device", deviceFields))
}

// FetchAssets returns the asset inventory feed.
func (c *Client) FetchAssets(ctx context.Context) ([]models.AssetRow, error) {
	return fetchObjects[models.AssetRow](ctx, c, c.FeedURL("inventory", inventoryFields))
}

func fetchObjects[T any](ctx context.Context, c *Client, target string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("%w: status %d from %s, response: %s",
			ErrFeedUnavailable, resp.StatusCode, req.URL.Path, string(bodyBytes))
	}

	var payload objectsResponse[T]

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrFeedUnavailable, req.URL.Path, err)
	}

	if len(payload.Data.Objects) == 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, req.URL.Path, errNoObjects)
	}

	rows := payload.Data.Objects[0].Data

	c.logger.Info().
		Str("resource", req.URL.Path).
		Int("rows", len(rows)).
		Msg("Fetched feed")

	return rows, nil
}
