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

// Command netinfo runs reconciliation cycles: it merges the Statseeker feeds, collects
// switch topology from NetDB, assigns stable uuids and logs device state changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/ceressa/Netinfo/pkg/config"
	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/integrations/statseeker"
	"github.com/ceressa/Netinfo/pkg/lifecycle"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/natsutil"
	"github.com/ceressa/Netinfo/pkg/reconcile"
	"github.com/ceressa/Netinfo/pkg/topology"
	"github.com/ceressa/Netinfo/pkg/version"
)

const (
	serviceName            = "netinfo"
	defaultConfigPath      = "/etc/netinfo/netinfo.json"
	metricsShutdownTimeout = 5 * time.Second
)

type options struct {
	configPath string
	envFile    string
	interval   time.Duration
	archive    bool
}

func main() {
	opts := options{}

	flag.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file (.json, .yaml)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before the config")
	flag.DurationVar(&opts.interval, "interval", 0, "Run a cycle every interval until interrupted (overrides the config)")
	flag.BoolVar(&opts.archive, "archive", false, "Archive the status change log and exit")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String(serviceName))
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts)
	cancel()

	if err != nil {
		logger.Error().Err(err).Msg("netinfo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if err := config.LoadDotEnv(nil, opts.envFile); err != nil {
		return err
	}

	var cfg reconcile.Config

	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.configPath, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
	}

	if err := lifecycle.InitializeLogger(logCfg); err != nil {
		return err
	}

	root, err := lifecycle.NewLoggerImpl(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	appLogger := logger.Wrap(root.WithComponent(serviceName))

	defer func() {
		_ = lifecycle.ShutdownLogger()
	}()

	stopMetrics := startMetrics(ctx, &cfg, appLogger)
	defer stopMetrics()

	orch, closeDeps, err := buildOrchestrator(ctx, &cfg, root)
	if err != nil {
		return err
	}

	defer closeDeps()

	if opts.archive {
		path, err := orch.Archive(ctx)
		if err != nil {
			return fmt.Errorf("archive status log: %w", err)
		}

		appLogger.Info().Str("path", path).Msg("Status log archived")

		return nil
	}

	interval := opts.interval
	if interval == 0 {
		interval = cfg.Interval.Std()
	}

	if interval <= 0 {
		_, err := orch.RunCycle(ctx)

		return err
	}

	runEvery(ctx, orch, interval, appLogger)

	return nil
}

func startMetrics(ctx context.Context, cfg *reconcile.Config, appLogger logger.Logger) func() {
	otelCfg := cfg.Metrics
	if otelCfg == nil {
		otelCfg = logger.DefaultOTelConfig()
	}

	_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version(),
		OTel:           otelCfg,
	})

	switch {
	case errors.Is(err, logger.ErrOTelMetricsDisabled):
		return func() {}
	case err != nil:
		appLogger.Warn().Err(err).Msg("Metrics exporter not started")

		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		if err := logger.ShutdownMetrics(shutdownCtx); err != nil {
			appLogger.Warn().Err(err).Msg("Failed to flush metrics")
		}
	}
}

// buildOrchestrator wires the production collaborators. The returned function closes
// the NATS connection when one was opened. Each collaborator logs under its own component name.
func buildOrchestrator(ctx context.Context, cfg *reconcile.Config, appLogger logger.Logger) (*reconcile.Orchestrator, func(), error) {
	feedHTTP, err := statseeker.NewHTTPClient(&cfg.Statseeker)
	if err != nil {
		return nil, nil, fmt.Errorf("statseeker client: %w", err)
	}

	feeds := statseeker.NewClient(&cfg.Statseeker, feedHTTP, logger.Wrap(appLogger.WithComponent("statseeker")))

	netdbHTTP := &http.Client{}
	netdbLog := logger.Wrap(appLogger.WithComponent("netdb"))

	merger, err := reconcile.NewMerger(cfg, logger.Wrap(appLogger.WithComponent("inventory")))
	if err != nil {
		return nil, nil, fmt.Errorf("inventory merger: %w", err)
	}

	vendors, err := reconcile.NewVendorResolver(cfg, logger.Wrap(appLogger.WithComponent("macvendor")))
	if err != nil {
		return nil, nil, err
	}

	deps := reconcile.Deps{
		Feeds:  feeds,
		Tokens: netdb.NewPasswordTokenProvider(&cfg.NetDB, netdbHTTP),
		Fetchers: func(tokens netdb.TokenProvider) topology.Fetcher {
			return netdb.NewClient(&cfg.NetDB, netdbHTTP, tokens, netdbLog)
		},
		Vendors: vendors,
		Merger:  merger,
	}

	closeDeps := func() {}

	if cfg.NATS.Enabled() {
		publisher, nc, err := natsutil.Connect(ctx, cfg.NATS, logger.Wrap(appLogger.WithComponent("natsutil")))
		if err != nil {
			appLogger.Warn().Err(err).Msg("NATS unavailable, state changes will not be published")
		} else {
			deps.Publisher = publisher
			closeDeps = nc.Close
		}
	}

	orch, err := reconcile.New(cfg, deps, logger.Wrap(appLogger.WithComponent("reconcile")))
	if err != nil {
		closeDeps()

		return nil, nil, err
	}

	return orch, closeDeps, nil
}

// runEvery runs a cycle immediately and then on every tick until ctx ends. A failed
// cycle is logged and retried at the next tick.
func runEvery(ctx context.Context, orch *reconcile.Orchestrator, interval time.Duration, appLogger logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	appLogger.Info().Dur("interval", interval).Msg("Scheduler started")

	for {
		if _, err := orch.RunCycle(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Cycle failed")
		}

		select {
		case <-ctx.Done():
			appLogger.Info().Msg("Scheduler stopped")

			return
		case <-ticker.C:
		}
	}
}
