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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestWriteThenReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	require.NoError(t, WriteJSON(path, sample{Name: "İstanbul <hq>", Items: []string{"a"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "İstanbul <hq>")
	assert.Contains(t, string(raw), "\n  \"items\"")

	var got sample
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, "İstanbul <hq>", got.Name)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestReadJSONErrors(t *testing.T) {
	dir := t.TempDir()

	var got sample

	err := ReadJSON(filepath.Join(dir, "missing.json"), &got)
	require.ErrorIs(t, err, ErrNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	require.ErrorIs(t, ReadJSON(bad, &got), ErrCorrupt)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	require.ErrorIs(t, ReadJSON(empty, &got), ErrCorrupt)
}

func TestCycleLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "netinfo.lock")

	first := NewCycleLock(path)
	release, err := first.Acquire(context.Background())
	require.NoError(t, err)

	second := NewCycleLock(path)
	second.retry = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = second.Acquire(ctx)
	require.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release())

	release2, err := second.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, release2())
}
