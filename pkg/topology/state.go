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

import "fmt"

// State is the progress of one device through a topology pass.
type State int

const (
	StatePending State = iota
	StateFetching
	StateFused
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateFetching:
		return "FETCHING"
	case StateFused:
		return "FUSED"
	case StateUnreachable:
		return "UNREACHABLE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFused || s == StateUnreachable
}

var transitions = map[State][]State{
	StatePending:  {StateFetching},
	StateFetching: {StateFused, StateUnreachable},
}

type deviceRun struct {
	state State
}

func (r *deviceRun) advance(to State) error {
	for _, allowed := range transitions[r.state] {
		if allowed == to {
			r.state = to
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", errInvalidTransition, r.state, to)
}
