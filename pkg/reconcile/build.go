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

	"github.com/ceressa/Netinfo/pkg/inventory"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/macvendor"
)

// NewMerger builds the inventory merger from cfg: model families, location rules and
// the station table.
func NewMerger(cfg *Config, log logger.Logger) (*inventory.Merger, error) {
	classifier, err := inventory.NewClassifier(cfg.SwitchModels, cfg.RouterModels)
	if err != nil {
		return nil, err
	}

	rules, err := inventory.LoadLocationRules(cfg.Paths.LocationRules)
	if err != nil {
		return nil, err
	}

	locator, err := inventory.NewLocator(rules, log)
	if err != nil {
		return nil, err
	}

	stations := inventory.LoadStationTable(cfg.Paths.StationTable, log)

	log.Debug().
		Int("location_rules", len(rules)).
		Int("stations", stations.Len()).
		Msg("Inventory merger ready")

	return inventory.NewMerger(classifier, locator, stations, log), nil
}

// NewVendorResolver builds the MAC vendor resolver. Without an OUI file every vendor
// resolves to Unknown.
func NewVendorResolver(cfg *Config, log logger.Logger) (*macvendor.Resolver, error) {
	table := macvendor.Table{}

	if cfg.Paths.OUIFile != "" {
		loaded, err := macvendor.LoadOUIFile(cfg.Paths.OUIFile)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Paths.OUIFile).Msg("OUI file unreadable, vendors will be Unknown")
		} else {
			table = loaded
		}
	}

	resolver, err := macvendor.NewResolver(table, cfg.VendorCacheSize, log)
	if err != nil {
		return nil, fmt.Errorf("vendor resolver: %w", err)
	}

	return resolver, nil
}
