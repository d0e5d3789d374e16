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

// Package reconcile runs one reconciliation cycle end to end: feeds, merge, parallel
// topology collection, then a single-threaded pass through identity assignment and
// state detection before every artifact is persisted.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ceressa/Netinfo/pkg/identity"
	"github.com/ceressa/Netinfo/pkg/integrations/netdb"
	"github.com/ceressa/Netinfo/pkg/integrations/statseeker"
	"github.com/ceressa/Netinfo/pkg/inventory"
	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/ceressa/Netinfo/pkg/status"
	"github.com/ceressa/Netinfo/pkg/store"
	"github.com/ceressa/Netinfo/pkg/topology"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of an Orchestrator. Publisher may be nil.
type Deps struct {
	Feeds     FeedSource
	Tokens    netdb.TokenProvider
	Fetchers  FetcherFactory
	Vendors   topology.VendorResolver
	Merger    *inventory.Merger
	Publisher EventPublisher
}

// CycleReport summarises a cycle.
type CycleReport struct {
	CycleID     string
	StartedAt   time.Time
	Merge       inventory.MergeStats
	Devices     int
	Targets     int
	Fused       int
	Unreachable int
	ShapeErrors int
	Events      int
	Suppressed  int
	Skipped     int
	Published   int
	Reclaimed   []string
	Identity    identity.Stats
}

// Orchestrator drives reconciliation cycles. Cycles must not overlap; the cycle lock
// enforces this across processes.
type Orchestrator struct {
	cfg       *Config
	feeds     FeedSource
	tokens    netdb.TokenProvider
	fetchers  FetcherFactory
	vendors   topology.VendorResolver
	merger    *inventory.Merger
	publisher EventPublisher
	lock      *store.CycleLock
	logger    logger.Logger

	clock        status.Clock
	detectorOpts []status.Option
	detector     *status.Detector
	targetTypes  map[models.DeviceType]struct{}
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock for the cycle and its timestamps.
func WithClock(c status.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
		o.detectorOpts = append(o.detectorOpts, status.WithClock(c))
	}
}

// WithEventIDs replaces the generator of event log ids.
func WithEventIDs(fn func() string) Option {
	return func(o *Orchestrator) {
		o.detectorOpts = append(o.detectorOpts, status.WithIDGenerator(fn))
	}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// New validates deps and returns an orchestrator. cfg must have been validated.
func New(cfg *Config, deps Deps, log logger.Logger, opts ...Option) (*Orchestrator, error) {
	switch {
	case deps.Feeds == nil:
		return nil, errNoFeeds
	case deps.Tokens == nil:
		return nil, errNoTokens
	case deps.Fetchers == nil:
		return nil, errNoFetcher
	case deps.Merger == nil:
		return nil, errNoMerger
	case cfg.Workers <= 0:
		return nil, errInvalidWorkers
	}

	if err := cfg.Retry.Policy().Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:         cfg,
		feeds:       deps.Feeds,
		tokens:      deps.Tokens,
		fetchers:    deps.Fetchers,
		vendors:     deps.Vendors,
		merger:      deps.Merger,
		publisher:   deps.Publisher,
		lock:        store.NewCycleLock(cfg.Paths.Lock),
		logger:      log,
		clock:       wallClock{},
		targetTypes: make(map[models.DeviceType]struct{}, len(cfg.TopologyDeviceTypes)),
	}

	for _, t := range cfg.TopologyDeviceTypes {
		o.targetTypes[t] = struct{}{}
	}

	for _, opt := range opts {
		opt(o)
	}

	o.detector = status.NewDetector(cfg.Location(), log, o.detectorOpts...)

	return o, nil
}

// RunCycle runs one reconciliation cycle. It fails without writing anything when the
// lock is held, the device feed is unavailable or empty, or NetDB rejects the
// credentials, whether up front or on a refresh during collection. Any other failure is confined to the device or artifact it concerns;
// a persistence error is returned together with the report.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := o.clock.Now()

	report, err := o.runCycle(ctx, start)

	elapsed := o.clock.Now().Sub(start)

	if report != nil {
		recordCycle(ctx, report)
	}

	if err != nil {
		recordOutcome(ctx, failureReason(err), elapsed)

		return report, err
	}

	recordOutcome(ctx, "ok", elapsed)

	o.logger.Info().
		Str("cycle_id", report.CycleID).
		Int("devices", report.Devices).
		Int("fused", report.Fused).
		Int("unreachable", report.Unreachable).
		Int("events", report.Events).
		Int("uuids_assigned", report.Identity.Assigned).
		Int("uuids_reclaimed", report.Identity.Reclaimed).
		Dur("elapsed", elapsed).
		Msg("Cycle complete")

	return report, nil
}

func (o *Orchestrator) runCycle(ctx context.Context, start time.Time) (*CycleReport, error) {
	release, err := o.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := release(); err != nil {
			o.logger.Warn().Err(err).Str("path", o.lock.Path()).Msg("Failed to release cycle lock")
		}
	}()

	sess, err := o.newSession(ctx, start)
	if err != nil {
		return nil, err
	}

	log := sess.logger
	report := &CycleReport{CycleID: sess.ID, StartedAt: start}

	deviceRows, err := o.feeds.FetchDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("device feed: %w", err)
	}

	if len(deviceRows) == 0 {
		return nil, ErrEmptyFeed
	}

	assetRows, err := o.feeds.FetchAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("asset feed: %w", err)
	}

	devices, mergeStats := o.merger.Merge(deviceRows, assetRows)
	report.Merge = mergeStats

	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: no device survived the merge", ErrEmptyFeed)
	}

	targets := o.topologyTargets(devices)
	report.Targets = len(targets)

	hosts := make(map[string]models.HostTopology, len(targets))

	if len(targets) > 0 {
		if _, err := sess.Tokens.GetAccessToken(ctx); err != nil {
			return nil, err
		}

		collector, err := topology.NewCollector(o.fetchers(sess.Tokens), o.vendors, o.cfg.Retry.Policy(), log)
		if err != nil {
			return nil, err
		}

		results := o.collect(ctx, collector, targets)

		// A token refresh that fails mid-cycle is as fatal as one that fails up front.
		for i := range results {
			if errors.Is(results[i].Err, netdb.ErrAuthFailed) {
				return nil, fmt.Errorf("collect %s: %w", targets[i].Hostname, results[i].Err)
			}
		}

		for i, res := range results {
			hosts[targets[i].Hostname] = res.Host
			report.ShapeErrors += len(res.ShapeErrors)

			if res.State == topology.StateFused {
				report.Fused++
			} else {
				report.Unreachable++
			}
		}
	}

	records, err := o.reduce(sess, devices, report)
	if err != nil {
		return nil, err
	}

	report.Devices = len(records)

	snapshot := topology.Summarize(hosts, start, o.cfg.Location())

	persistErr := o.persist(ctx, sess, records, snapshot)

	if emitted := sess.Emitted(); o.publisher != nil && len(emitted) > 0 && !errors.Is(persistErr, errEventLogNotSaved) {
		published, err := o.publisher.PublishAll(ctx, emitted)
		if err != nil {
			log.Warn().Err(err).Int("published", published).Msg("Some state changes were not published")
		}

		report.Published = published
	}

	if persistErr != nil {
		return report, persistErr
	}

	return report, nil
}

func (o *Orchestrator) newSession(ctx context.Context, start time.Time) (*Session, error) {
	id := uuid.New().String()
	log := logger.Wrap(o.logger.With().Str("cycle_id", id).Logger())

	events, err := status.LoadEventLog(o.cfg.Paths.StatusLog, log)
	if err != nil {
		return nil, err
	}

	previous, err := loadPrevious(o.cfg.Paths.Inventory, log)
	if err != nil {
		return nil, err
	}

	registry := identity.NewRegistry(identity.NewFileStore(o.cfg.Paths.UUIDPool), log)
	registry.Load(ctx)

	log.Info().
		Int("previous_devices", previous.len()).
		Int("status_log_entries", events.Len()).
		Msg("Cycle started")

	return &Session{
		ID:        id,
		StartedAt: start,
		Tokens:    netdb.NewCachedTokenProvider(o.tokens, o.cfg.NetDB.TokenTTL.Std()),
		Registry:  registry,
		Events:    events,
		previous:  previous,
		logger:    log,
	}, nil
}

// topologyTargets selects the devices whose ports are collected, one per hostname.
func (o *Orchestrator) topologyTargets(devices []models.Device) []*models.Device {
	seen := make(map[string]struct{}, len(devices))
	targets := make([]*models.Device, 0, len(devices))

	for i := range devices {
		d := &devices[i]

		if _, ok := o.targetTypes[d.DeviceType]; !ok {
			continue
		}

		if _, dup := seen[d.Hostname]; dup {
			continue
		}

		seen[d.Hostname] = struct{}{}
		targets = append(targets, d)
	}

	return targets
}

// collect runs the collector over targets on a bounded pool. Results are positional.
// Requests are bounded by their own timeouts and are not cancelled with ctx.
func (o *Orchestrator) collect(ctx context.Context, collector *topology.Collector, targets []*models.Device) []topology.Result {
	results := make([]topology.Result, len(targets))
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group

	g.SetLimit(o.cfg.Workers)

	for i, device := range targets {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = unreachableResult(device, fmt.Errorf("%w: %v", errCollectPanic, r))

					o.logger.Error().
						Str("hostname", device.Hostname).
						Interface("panic", r).
						Msg("Topology collection panicked")
				}
			}()

			results[i] = collector.Collect(workCtx, device)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func unreachableResult(device *models.Device, err error) topology.Result {
	return topology.Result{
		Host: models.HostTopology{
			DeviceID: device.DeviceID,
			Status:   models.HostStatusUnreachable,
			Ports:    []models.Port{},
		},
		State: topology.StateUnreachable,
		Err:   err,
	}
}

// reduce walks the merged devices in order, binding uuids and detecting transitions.
// It is the only stage that touches the registry and the change log.
func (o *Orchestrator) reduce(sess *Session, devices []models.Device, report *CycleReport) ([]models.DeviceRecord, error) {
	reclaimed, err := sess.Registry.Reclaim(inventory.DeviceIDs(devices))
	if err != nil {
		return nil, err
	}

	report.Reclaimed = reclaimed
	records := make([]models.DeviceRecord, 0, len(devices))

	for i := range devices {
		device := devices[i]
		device.UUID = sess.Registry.Assign(device.DeviceID)

		var last *models.StateChangeEvent
		if ev, ok := sess.Events.Last(device.DeviceID); ok {
			last = ev
		}

		res, err := o.detector.Detect(&device, sess.previous.lookup(&device), last)
		if err != nil {
			return nil, err
		}

		switch {
		case res.Skipped:
			report.Skipped++
		case res.Suppressed:
			report.Suppressed++
		}

		if res.Event != nil {
			if err := sess.Events.Append(res.Event); err != nil {
				sess.logger.Error().Err(err).Str("deviceid", device.DeviceID).Msg("State change not logged")
			} else {
				sess.emitted = append(sess.emitted, *res.Event)
				report.Events++
			}
		}

		records = append(records, res.Record)
	}

	report.Identity = sess.Registry.Stats()

	return records, nil
}

// persist writes every artifact, continuing past failures. The change log is only
// rewritten when the cycle appended to it.
func (o *Orchestrator) persist(
	ctx context.Context, sess *Session, records []models.DeviceRecord, snapshot *models.TopologySnapshot,
) error {
	var errs []error

	if err := store.WriteJSON(o.cfg.Paths.Inventory, records); err != nil {
		errs = append(errs, err)
	}

	if err := store.WriteJSON(o.cfg.Paths.Topology, snapshot); err != nil {
		errs = append(errs, err)
	}

	if sess.Events.Appended() > 0 {
		if err := sess.Events.Save(o.cfg.Paths.StatusLog); err != nil {
			errs = append(errs, errEventLogNotSaved, err)
		}
	}

	if err := sess.Registry.Persist(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}

	err := fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	sess.logger.Error().Err(err).Msg("Cycle artifacts not fully persisted")

	return err
}

// Archive copies the change log into the archive directory under the cycle lock.
func (o *Orchestrator) Archive(ctx context.Context) (string, error) {
	release, err := o.lock.Acquire(ctx)
	if err != nil {
		return "", err
	}

	defer func() {
		if err := release(); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to release cycle lock")
		}
	}()

	events, err := status.LoadEventLog(o.cfg.Paths.StatusLog, o.logger)
	if err != nil {
		return "", err
	}

	return events.Archive(o.cfg.Paths.ArchiveDir, o.clock.Now().In(o.cfg.Location()))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, store.ErrLockHeld):
		return "lock_held"
	case errors.Is(err, netdb.ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, statseeker.ErrFeedUnavailable), errors.Is(err, ErrEmptyFeed):
		return "feed_unavailable"
	case errors.Is(err, ErrPersist):
		return "persist_failed"
	default:
		return "error"
	}
}
