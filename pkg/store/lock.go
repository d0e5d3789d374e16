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

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockHeld is returned when another run holds the cycle lock past the wait deadline.
var ErrLockHeld = errors.New("cycle lock is held by another process")

const defaultLockRetry = 500 * time.Millisecond

// CycleLock serialises runs that read-modify-write the pool and the status log.
type CycleLock struct {
	lock  *flock.Flock
	retry time.Duration
}

// NewCycleLock returns a lock backed by the file at path.
func NewCycleLock(path string) *CycleLock {
	return &CycleLock{
		lock:  flock.New(path),
		retry: defaultLockRetry,
	}
}

// Acquire blocks until the lock is taken or ctx ends. The returned function releases it.
func (l *CycleLock) Acquire(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.lock.Path()), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	locked, err := l.lock.TryLockContext(ctx, l.retry)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, l.lock.Path())
		}

		return nil, fmt.Errorf("acquire %s: %w", l.lock.Path(), err)
	}

	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockHeld, l.lock.Path())
	}

	return l.lock.Unlock, nil
}

// Path returns the lock file location.
func (l *CycleLock) Path() string {
	return l.lock.Path()
}
