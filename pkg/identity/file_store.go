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

package identity

import (
	"context"
	"fmt"

	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/store"
)

// FileStore keeps the pool in a single JSON file shaped
// {"deviceid_uuid_mapping": {...}, "available_uuids": [...]}.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the pool file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the pool file. Missing keys decode to empty collections.
func (s *FileStore) Load(_ context.Context) (*models.UUIDPool, error) {
	pool := models.NewUUIDPool()
	if err := store.ReadJSON(s.path, pool); err != nil {
		return nil, err
	}

	if pool.Mapping == nil {
		pool.Mapping = make(map[string]string)
	}

	if pool.Available == nil {
		pool.Available = []string{}
	}

	return pool, nil
}

// Save writes both structures in one atomic replace.
func (s *FileStore) Save(_ context.Context, pool *models.UUIDPool) error {
	if pool == nil {
		return errNilPool
	}

	if err := store.WriteJSON(s.path, pool); err != nil {
		return fmt.Errorf("save uuid pool: %w", err)
	}

	return nil
}

// Path returns the pool file location.
func (s *FileStore) Path() string {
	return s.path
}
