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

import "errors"

var (
	// ErrAuthFailed means no bearer token could be obtained. It aborts the cycle.
	ErrAuthFailed = errors.New("netdb authentication failed")
	// ErrUnexpectedStatus is returned for non-200 endpoint responses.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrMissingResults marks a source whose response carried no "results" member.
	ErrMissingResults = errors.New("response has no results")

	errMissingBaseURL  = errors.New("netdb base_url is required")
	errMissingAuthURL  = errors.New("netdb auth_url is required")
	errMissingUsername = errors.New("netdb username is required")
	errMissingPassword = errors.New("netdb password is required")
	errEmptyHostname   = errors.New("hostname is empty")
	errUnknownEndpoint = errors.New("unknown endpoint")
)
