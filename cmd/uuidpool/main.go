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

// Command uuidpool provisions the identity pool: it appends freshly generated uuids
// to available_uuids. The reconciler itself never creates uuids.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceressa/Netinfo/pkg/config"
	"github.com/ceressa/Netinfo/pkg/identity"
	"github.com/ceressa/Netinfo/pkg/lifecycle"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/reconcile"
	"github.com/ceressa/Netinfo/pkg/store"
	"github.com/google/uuid"
)

const (
	defaultConfigPath  = "/etc/netinfo/netinfo.json"
	defaultLockTimeout = 2 * time.Minute
)

var (
	errInvalidCount   = errors.New("count must be positive")
	errMissingDataDir = errors.New("paths.data_dir is required")
)

// poolConfig reads only the paths section of the reconciler config, so the tool runs
// without feed credentials.
type poolConfig struct {
	Paths reconcile.Paths `json:"paths" yaml:"paths"`
}

func (c *poolConfig) Validate() error {
	if c.Paths.DataDir == "" {
		return errMissingDataDir
	}

	c.Paths.ApplyDefaults()

	return nil
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to the netinfo config file")
	envFile := flag.String("env-file", ".env", "Environment file loaded before the config")
	count := flag.Int("count", 0, "Number of uuids to add")
	lockTimeout := flag.Duration("lock-timeout", defaultLockTimeout, "How long to wait for a running cycle")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *configPath, *envFile, *count, *lockTimeout)
	cancel()

	if err != nil {
		logger.Error().Err(err).Msg("uuidpool failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, envFile string, count int, lockTimeout time.Duration) error {
	if count <= 0 {
		return errInvalidCount
	}

	if err := config.LoadDotEnv(nil, envFile); err != nil {
		return err
	}

	var cfg poolConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, configPath, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLogger, err := lifecycle.CreateComponentLogger("uuidpool", logger.DefaultConfig())
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	defer func() {
		_ = lifecycle.ShutdownLogger()
	}()

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	release, err := store.NewCycleLock(cfg.Paths.Lock).Acquire(lockCtx)
	if err != nil {
		return err
	}

	defer func() {
		if err := release(); err != nil {
			appLogger.Warn().Err(err).Msg("Failed to release cycle lock")
		}
	}()

	return seed(ctx, identity.NewFileStore(cfg.Paths.UUIDPool), count, appLogger)
}

// seed extends the pool by count new uuids. An unreadable pool file is left alone
// rather than replaced by one that has lost its mapping.
func seed(ctx context.Context, fs *identity.FileStore, count int, appLogger logger.Logger) error {
	if _, err := fs.Load(ctx); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("refusing to extend %s: %w", fs.Path(), err)
	}

	registry := identity.NewRegistry(fs, appLogger)
	before := registry.Load(ctx)

	fresh := make([]string, count)
	for i := range fresh {
		fresh[i] = uuid.New().String()
	}

	added := registry.Extend(fresh)

	if err := registry.Persist(ctx); err != nil {
		return err
	}

	appLogger.Info().
		Str("path", fs.Path()).
		Int("added", added).
		Int("total_before", before.Total()).
		Int("total_after", before.Total()+added).
		Msg("UUID pool extended")

	return nil
}
