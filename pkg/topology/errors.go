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

package topology

import (
	"errors"
	"fmt"

	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
)

var (
	// ErrEndpointFailed matches every EndpointError.
	ErrEndpointFailed = errors.New("endpoint failed after retries")
	// ErrDataShape matches every DataShapeError.
	ErrDataShape = errors.New("unexpected telemetry shape")

	errInvalidTransition = errors.New("invalid state transition")
	errNoAttempts        = errors.New("retry attempts must be positive")
	errNegativeDelay     = errors.New("retry delays must not be negative")
	errNoTimeout         = errors.New("retry timeout must be positive")
	errNilFetcher        = errors.New("fetcher is nil")
)

// EndpointError reports an endpoint that could not be fetched for a device.
type EndpointError struct {
	Hostname string
	Endpoint netdb.Endpoint
	Attempts int
	Err      error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s: %s failed after %d attempt(s): %v", e.Hostname, e.Endpoint, e.Attempts, e.Err)
}

func (e *EndpointError) Unwrap() []error {
	return []error{ErrEndpointFailed, e.Err}
}

// DataShapeError reports a telemetry payload that does not decode into the expected form.
type DataShapeError struct {
	Source netdb.Endpoint
	Err    error
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *DataShapeError) Unwrap() []error {
	return []error{ErrDataShape, e.Err}
}
