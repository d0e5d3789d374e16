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

// Package natsutil publishes device state changes to NATS JetStream as CloudEvents.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StateChangedEventType is the CloudEvent type of a device state transition.
	StateChangedEventType = "com.netinfo.device.state_changed"
	eventSource           = "netinfo/reconciler"
)

// publisher is the part of jetstream.JetStream the EventPublisher needs.
type publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js      publisher
	stream  string
	subject string
	timeout time.Duration
	logger  logger.Logger
	now     func() time.Time
}

// NewEventPublisher creates a new EventPublisher for the configured stream and subject.
func NewEventPublisher(js publisher, cfg *Config, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:      js,
		stream:  cfg.Stream,
		subject: cfg.Subject,
		timeout: cfg.Timeout.Std(),
		logger:  log,
		now:     time.Now,
	}
}

// PublishStateChange publishes one state change event. The event's log_id is used as
// the JetStream message id, so a retried publish is deduplicated by the server.
func (p *EventPublisher) PublishStateChange(ctx context.Context, ev *models.StateChangeEvent) error {
	if p.subject == "" {
		return errEmptySubject
	}

	now := p.now()

	id := ev.LogID
	if id == "" {
		id = uuid.New().String()
	}

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              id,
		Source:          eventSource,
		Type:            StateChangedEventType,
		DataContentType: "application/json",
		Subject:         p.subject,
		Time:            &now,
		Data:            ev,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal state change event: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ack, err := p.js.Publish(ctx, event.Subject, eventBytes, jetstream.WithMsgID(id))
	if err != nil {
		return fmt.Errorf("failed to publish state change event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("seq", ack.Sequence).
		Msg("Published state change event")

	return nil
}

// PublishAll publishes every event, continuing past failures. It returns the number
// published and the joined errors.
func (p *EventPublisher) PublishAll(ctx context.Context, events []models.StateChangeEvent) (int, error) {
	var (
		published int
		errs      []error
	)

	for i := range events {
		if err := p.PublishStateChange(ctx, &events[i]); err != nil {
			errs = append(errs, err)

			p.logger.Warn().
				Err(err).
				Str("log_id", events[i].LogID).
				Str("deviceid", events[i].DeviceID).
				Msg("State change event not published")

			continue
		}

		published++
	}

	return published, errors.Join(errs...)
}

// Connect opens a NATS connection for cfg and returns a publisher bound to its stream.
// The stream is created, or extended to cover the subject, when needed.
func Connect(ctx context.Context, cfg *Config, log logger.Logger) (*EventPublisher, *nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("netinfo-reconciler"),
		nats.Timeout(cfg.Timeout.Std()),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	if cfg.TLS != nil {
		tlsConf, err := TLSConfig(cfg.TLS)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts, nats.Secure(tlsConf))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := newJetStream(nc, cfg.Domain)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	if err := ensureStream(ctx, js, cfg.Stream, cfg.Subject, log); err != nil {
		nc.Close()
		return nil, nil, err
	}

	log.Info().Str("url", nc.ConnectedUrl()).Str("stream", cfg.Stream).Msg("Connected to NATS")

	return NewEventPublisher(js, cfg, log), nc, nil
}

func newJetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain != "" {
		js, err := jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}

		return js, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return js, nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, name, subject string, log logger.Logger) error {
	stream, err := js.Stream(ctx, name)

	switch {
	case err == nil:
		info := stream.CachedInfo()
		if info == nil {
			return nil
		}

		subjects := ensureSubjectList(append([]string(nil), info.Config.Subjects...), subject)
		if len(subjects) == len(info.Config.Subjects) {
			return nil
		}

		cfg := info.Config
		cfg.Subjects = subjects

		if _, err := js.UpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to add subject %s to stream %s: %w", subject, name, err)
		}

		log.Info().Str("stream", name).Str("subject", subject).Msg("Added subject to NATS stream")

		return nil
	case isStreamMissingErr(err):
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: ensureSubjectList(nil, subject),
		})
		if err != nil {
			return fmt.Errorf("failed to create or get stream %s: %w", name, err)
		}

		log.Info().Str("stream", name).Msg("Created NATS JetStream stream")

		return nil
	default:
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}

// ensureSubjectList appends subject unless one of the patterns already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token, a trailing ">"
// matches one or more.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, tok := range pt {
		if tok == ">" {
			return i == len(pt)-1 && len(st) > i
		}

		if i >= len(st) {
			return false
		}

		if tok != "*" && tok != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}
