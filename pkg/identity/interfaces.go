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

	"github.com/ceressa/Netinfo/pkg/models"
)

//go:generate mockgen -destination=mock_identity.go -package=identity github.com/ceressa/Netinfo/pkg/identity PoolStore

// PoolStore loads and saves the mapping and the free list as one unit.
type PoolStore interface {
	Load(ctx context.Context) (*models.UUIDPool, error)
	Save(ctx context.Context, pool *models.UUIDPool) error
}
