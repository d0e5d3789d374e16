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

// Package identity hands out stable uuids to device ids from a pre-provisioned pool.
//
// A cycle runs Load, then Reclaim with the ids of the merged inventory, then Assign for
// each device in merged order, then Persist. Uuids freed by Reclaim are appended to the
// free list only when the pool is persisted, so they are drawn from the next cycle on.
// The registry never generates a uuid; an empty free list yields models.UUIDNotAssigned.
package identity

import (
	"context"
	"sort"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
)

// Stats counts what a cycle did to the pool.
type Stats struct {
	Assigned  int
	Reclaimed int
	Exhausted int
}

// Registry is the in-memory view of the pool for one cycle. It is not safe for
// concurrent use; the orchestrator drives it from a single goroutine.
type Registry struct {
	store     PoolStore
	logger    logger.Logger
	mapping   map[string]string
	available []string
	reclaimed []string
	assigning bool
	stats     Stats
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store PoolStore, log logger.Logger) *Registry {
	return &Registry{
		store:     store,
		logger:    log,
		mapping:   make(map[string]string),
		available: []string{},
	}
}

// Load reads the persisted pool. A missing or unreadable pool is not an error: the
// registry starts empty and logs a warning.
func (r *Registry) Load(ctx context.Context) *models.UUIDPool {
	pool, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("UUID pool unavailable, starting with an empty pool")

		pool = models.NewUUIDPool()
	}

	r.reset(pool)

	r.logger.Info().
		Int("mapped", len(r.mapping)).
		Int("available", len(r.available)).
		Msg("UUID pool loaded")

	return r.Snapshot()
}

func (r *Registry) reset(pool *models.UUIDPool) {
	r.mapping = make(map[string]string, len(pool.Mapping))
	r.reclaimed = nil
	r.assigning = false
	r.stats = Stats{}

	bound := make(map[string]struct{}, len(pool.Mapping))

	for id, u := range pool.Mapping {
		if id == "" || u == "" {
			continue
		}

		r.mapping[id] = u
		bound[u] = struct{}{}
	}

	seen := make(map[string]struct{}, len(pool.Available))
	r.available = make([]string, 0, len(pool.Available))

	for _, u := range pool.Available {
		if u == "" {
			continue
		}

		if _, ok := bound[u]; ok {
			r.logger.Warn().Str("uuid", u).Msg("UUID listed as available is already mapped, dropping it from the free list")
			continue
		}

		if _, ok := seen[u]; ok {
			r.logger.Warn().Str("uuid", u).Msg("Duplicate UUID in free list")
			continue
		}

		seen[u] = struct{}{}
		r.available = append(r.available, u)
	}
}

// Reclaim unbinds every mapped device id that is absent from current. The freed uuids
// are queued for the free list and become assignable after Persist.
func (r *Registry) Reclaim(current map[string]struct{}) ([]string, error) {
	if r.assigning {
		return nil, ErrReclaimAfterAssign
	}

	ids := make([]string, 0, len(r.mapping))

	for id := range r.mapping {
		if _, ok := current[id]; !ok {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	for _, id := range ids {
		u := r.mapping[id]
		delete(r.mapping, id)
		r.reclaimed = append(r.reclaimed, u)

		r.logger.Info().Str("deviceid", id).Str("uuid", u).Msg("UUID reclaimed")
	}

	r.stats.Reclaimed += len(ids)

	return ids, nil
}

// Assign returns the uuid bound to deviceID, binding the head of the free list if the
// device has none yet.
func (r *Registry) Assign(deviceID string) string {
	r.assigning = true

	if u, ok := r.mapping[deviceID]; ok {
		return u
	}

	if len(r.available) == 0 {
		r.stats.Exhausted++

		r.logger.Warn().Str("deviceid", deviceID).Msg("UUID pool exhausted, device left without a uuid")

		return models.UUIDNotAssigned
	}

	u := r.available[0]
	r.available = r.available[1:]
	r.mapping[deviceID] = u
	r.stats.Assigned++

	r.logger.Info().Str("deviceid", deviceID).Str("uuid", u).Msg("UUID assigned")

	return u
}

// Lookup returns the uuid bound to deviceID without assigning one.
func (r *Registry) Lookup(deviceID string) (string, bool) {
	u, ok := r.mapping[deviceID]

	return u, ok
}

// Extend appends uuids to the free list, skipping any the pool already knows.
// It returns how many were added.
func (r *Registry) Extend(uuids []string) int {
	known := make(map[string]struct{}, r.total())

	for _, u := range r.mapping {
		known[u] = struct{}{}
	}

	for _, u := range r.available {
		known[u] = struct{}{}
	}

	for _, u := range r.reclaimed {
		known[u] = struct{}{}
	}

	added := 0

	for _, u := range uuids {
		if _, ok := known[u]; ok || u == "" {
			continue
		}

		known[u] = struct{}{}
		r.available = append(r.available, u)
		added++
	}

	return added
}

// Snapshot returns the pool as it will be persisted.
func (r *Registry) Snapshot() *models.UUIDPool {
	pool := &models.UUIDPool{
		Mapping:   make(map[string]string, len(r.mapping)),
		Available: make([]string, 0, len(r.available)+len(r.reclaimed)),
	}

	for id, u := range r.mapping {
		pool.Mapping[id] = u
	}

	pool.Available = append(pool.Available, r.available...)
	pool.Available = append(pool.Available, r.reclaimed...)

	return pool
}

// Persist writes the mapping and the free list together.
func (r *Registry) Persist(ctx context.Context) error {
	pool := r.Snapshot()
	if err := r.store.Save(ctx, pool); err != nil {
		return err
	}

	r.logger.Info().
		Int("mapped", len(pool.Mapping)).
		Int("available", len(pool.Available)).
		Int("assigned", r.stats.Assigned).
		Int("reclaimed", r.stats.Reclaimed).
		Msg("UUID pool persisted")

	return nil
}

// Stats returns the counters for the current cycle.
func (r *Registry) Stats() Stats {
	return r.stats
}

func (r *Registry) total() int {
	return len(r.mapping) + len(r.available) + len(r.reclaimed)
}
