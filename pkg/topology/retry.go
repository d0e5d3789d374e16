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
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds the attempts made against one endpoint. Attempt n (starting at 0)
// runs with a timeout of Timeout + n*TimeoutStep and is preceded by Delays[n-1]; the
// last delay repeats if Delays is shorter than Attempts-1.
type RetryPolicy struct {
	Attempts    int
	Delays      []time.Duration
	Timeout     time.Duration
	TimeoutStep time.Duration
}

// DefaultRetryPolicy is three attempts, 10s then 20s apart, with 60s, 90s and 120s timeouts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:    3,
		Delays:      []time.Duration{10 * time.Second, 20 * time.Second},
		Timeout:     60 * time.Second,
		TimeoutStep: 30 * time.Second,
	}
}

// Validate checks the policy.
func (p RetryPolicy) Validate() error {
	if p.Attempts <= 0 {
		return errNoAttempts
	}

	if p.Timeout <= 0 {
		return errNoTimeout
	}

	for _, d := range p.Delays {
		if d < 0 {
			return errNegativeDelay
		}
	}

	if p.TimeoutStep < 0 {
		return errNegativeDelay
	}

	return nil
}

// AttemptTimeout is the timeout of the zero-based attempt n.
func (p RetryPolicy) AttemptTimeout(n int) time.Duration {
	return p.Timeout + time.Duration(n)*p.TimeoutStep
}

// scheduleBackOff replays a fixed list of delays.
type scheduleBackOff struct {
	delays []time.Duration
	next   int
}

var _ backoff.BackOff = (*scheduleBackOff)(nil)

func (s *scheduleBackOff) NextBackOff() time.Duration {
	if len(s.delays) == 0 {
		return 0
	}

	i := s.next
	if i >= len(s.delays) {
		i = len(s.delays) - 1
	}

	s.next++

	return s.delays[i]
}

func (s *scheduleBackOff) Reset() {
	s.next = 0
}
