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

//go:generate mockgen -destination=mock_reconcile.go -package=reconcile github.com/ceressa/Netinfo/pkg/reconcile FeedSource,EventPublisher

import (
	"context"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/topology"
)

// FeedSource returns the raw device state and asset inventory rows.
type FeedSource interface {
	FetchDevices(ctx context.Context) ([]models.DeviceStateRow, error)
	FetchAssets(ctx context.Context) ([]models.AssetRow, error)
}

// EventPublisher forwards emitted state changes downstream. Failures never fail a cycle.
type EventPublisher interface {
	PublishAll(ctx context.Context, events []models.StateChangeEvent) (int, error)
}

// FetcherFactory binds a telemetry fetcher to the token cache of one cycle.
type FetcherFactory func(tokens netdb.TokenProvider) topology.Fetcher
