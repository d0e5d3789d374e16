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

import "errors"

var (
	// ErrFeedUnavailable is returned when a feed cannot be fetched or decoded.
	ErrFeedUnavailable = errors.New("statseeker feed unavailable")

	errMissingBaseURL  = errors.New("statseeker base_url is required")
	errMissingGroup    = errors.New("statseeker group is required")
	errMissingUsername = errors.New("statseeker username is required")
	errInvalidLimit    = errors.New("statseeker limit must be positive")
	errNoObjects       = errors.New("response has no data.objects")
	errNoCACerts       = errors.New("no certificates found in CA file")
)
