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
	"errors"
	"fmt"
	"sync"
	"time"
)

// CachedTokenProvider holds the bearer token of one reconciliation cycle. The first
// caller fetches it and the device workers share it until ttl passes or a 401 drops it.
// Whatever the underlying provider returns on failure is reported as ErrAuthFailed.
type CachedTokenProvider struct {
	provider TokenProvider
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewCachedTokenProvider returns a cache over provider.
func NewCachedTokenProvider(provider TokenProvider, ttl time.Duration) *CachedTokenProvider {
	return &CachedTokenProvider{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetAccessToken returns the held token, fetching a new one once it has expired or
// been invalidated. Concurrent callers wait for a single fetch.
func (c *CachedTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.usableLocked() {
		return c.token, nil
	}

	token, err := c.provider.GetAccessToken(ctx)
	if err != nil {
		return "", authError(err)
	}

	c.token = token
	c.expiry = c.now().Add(c.ttl)

	return token, nil
}

// InvalidateToken forgets the held token; the next caller fetches a fresh one.
func (c *CachedTokenProvider) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
}

func (c *CachedTokenProvider) usableLocked() bool {
	return c.token != "" && c.now().Before(c.expiry)
}

func authError(err error) error {
	if errors.Is(err, ErrAuthFailed) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrAuthFailed, err)
}
