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

import "errors"

var (
	// ErrEmptyFeed is returned when the device feed answered with no rows. Running the
	// cycle anyway would reclaim every uuid.
	ErrEmptyFeed = errors.New("device feed returned no devices")
	// ErrPersist is returned when one or more cycle artifacts could not be written.
	ErrPersist = errors.New("failed to persist cycle state")

	errNoFeeds          = errors.New("feed source is required")
	errNoTokens         = errors.New("token provider is required")
	errNoFetcher        = errors.New("fetcher factory is required")
	errNoMerger         = errors.New("merger is required")
	errInvalidWorkers   = errors.New("workers must be positive")
	errMissingDataDir   = errors.New("paths.data_dir is required")
	errInvalidTimezone  = errors.New("unknown timezone")
	errNoTopologyTypes  = errors.New("topology_device_types must not be empty")
	errInvalidCacheSize = errors.New("vendor_cache_size must not be negative")
	errCollectPanic     = errors.New("topology collection panicked")
	errEventLogNotSaved = errors.New("status log not saved")
)
