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
	"strings"
)

// AccessTokenResponse is the body returned by the authorize endpoint.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// PasswordTokenProvider obtains bearer tokens with the password grant.
type PasswordTokenProvider struct {
	authURL    string
	username   string
	password   string
	httpClient HTTPClient
}

// NewPasswordTokenProvider returns a provider for cfg.
func NewPasswordTokenProvider(cfg *Config, httpClient HTTPClient) *PasswordTokenProvider {
	return &PasswordTokenProvider{
		authURL:    cfg.AuthURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
	}
}

// GetAccessToken performs the password grant. Every failure is reported as ErrAuthFailed.
func (p *PasswordTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "password")
	data.Set("username", p.username)
	data.Set("password", p.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return "", fmt.Errorf("%w: status %d, response: %s", ErrAuthFailed, resp.StatusCode, string(bodyBytes))
	}

	var tokenResp AccessTokenResponse

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", ErrAuthFailed, err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrAuthFailed)
	}

	return tokenResp.AccessToken, nil
}
