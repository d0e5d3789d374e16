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

package models

// UUIDPool is the persisted identity state: uuids bound to device ids plus the ordered
// list of uuids still free to hand out. A uuid lives in exactly one of the two.
type UUIDPool struct {
	Mapping   map[string]string `json:"deviceid_uuid_mapping"`
	Available []string          `json:"available_uuids"`
}

// NewUUIDPool returns an empty pool.
func NewUUIDPool() *UUIDPool {
	return &UUIDPool{
		Mapping:   make(map[string]string),
		Available: []string{},
	}
}

// Total is the number of uuids known to the pool, bound or free.
func (p *UUIDPool) Total() int {
	return len(p.Mapping) + len(p.Available)
}

// Clone returns a deep copy.
func (p *UUIDPool) Clone() *UUIDPool {
	out := &UUIDPool{
		Mapping:   make(map[string]string, len(p.Mapping)),
		Available: make([]string, len(p.Available)),
	}

	for k, v := range p.Mapping {
		out.Mapping[k] = v
	}

	copy(out.Available, p.Available)

	return out
}
