package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/registry"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			newOrderEvent(t, "event-one", 0),
			newOrderEvent(t, "event-two", 0),
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedOrder()}, nil)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{repo.events[0].ID}, repo.failed)
	require.Equal(t, []uuid.UUID{repo.events[1].ID}, repo.published)
	require.Empty(t, repo.terminal)
}

func TestServiceProcessBatchParksUnresolvableEvent(t *testing.T) {
	event := newOrderEvent(t, "nonretryable", 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	reg := &fakeRegistry{err: registry.NewNonRetryableError(errors.New("invalid payload"))}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, reg, nil)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{event.ID}, repo.terminal)
	require.Equal(t, 5, repo.terminalAttempts)
	require.Zero(t, pub.calls)
}

func TestServiceProcessBatchParksAfterMaxAttempts(t *testing.T) {
	event := newOrderEvent(t, "max-attempts", 1)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{
		results: []publishResult{fakePublishResult{err: errors.New("transient")}},
	}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedOrder()}, &config.OutboxConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
	})

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{event.ID}, repo.terminal)
	require.Equal(t, 2, repo.terminalAttempts)
	require.Empty(t, repo.failed)
}

func TestServiceProcessBatchParksWhenTopicHasNoPublisher(t *testing.T) {
	event := newOrderEvent(t, "no-publisher", 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	service := newTestService(t, repo, nil, &fakeRegistry{resolved: resolvedOrder()}, nil)
	service.publisherFactory = func(string) publisher { return nil }

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{event.ID}, repo.terminal)
}

func TestServiceProcessBatchReturnsMarkErrors(t *testing.T) {
	repo := &fakeRepo{
		events:     []models.OutboxEvent{newOrderEvent(t, "mark", 0)},
		publishErr: errors.New("db down"),
	}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedOrder()}, nil)

	_, err := service.processBatch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "mark published")
}

func TestServiceReadinessCombinesFailures(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, nil, &fakeRegistry{}, nil)
	service.db = &fakeDB{pingErr: errors.New("db unreachable")}
	service.pubsub = &fakePubSubClient{pingErr: errors.New("topic missing")}

	err := service.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "db unreachable")
	require.Contains(t, err.Error(), "topic missing")
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, nil, &fakeRegistry{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := service.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestServicePublishesQueuedOrderEvent(t *testing.T) {
	conn := dbtest.Open(t)
	client := db.NewFromGorm(conn)
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher-test", Output: io.Discard})

	orderID := uuid.New()
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return emitter.Emit(context.Background(), tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data: payloads.OrderCreatedEvent{
				OrderID:   orderID,
				UserID:    uuid.New(),
				Total:     "24.99",
				ItemCount: 1,
				Lines:     []payloads.OrderCreatedLine{{Title: "Lamp", Price: "24.99", Quantity: 1}},
			},
		})
	})
	require.NoError(t, err)

	eventRegistry, err := registry.NewEventRegistry(config.PubSubConfig{OrdersTopic: "orders"})
	require.NoError(t, err)

	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	publishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service, err := NewService(ServiceParams{
		Config:           &config.Config{},
		Logger:           logg,
		DB:               client,
		PubSub:           &fakePubSubClient{},
		Repository:       outbox.NewRepository(conn),
		Registry:         eventRegistry,
		PublisherFactory: func(topic string) publisher { require.Equal(t, "orders", topic); return pub },
		Now:              func() time.Time { return publishedAt },
	})
	require.NoError(t, err)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Len(t, pub.messages, 1)
	require.Equal(t, "order_created", pub.messages[0].Attributes["event_type"])
	require.Equal(t, orderID.String(), pub.messages[0].Attributes["aggregate_id"])

	var row models.OutboxEvent
	require.NoError(t, conn.First(&row).Error)
	require.NotNil(t, row.PublishedAt)
	require.True(t, row.PublishedAt.Equal(publishedAt))

	// a second pass finds nothing left to publish
	processed, err = service.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}

func TestServiceRunRecordsJobMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &cancelingRepo{
		fakeRepo: fakeRepo{events: []models.OutboxEvent{newOrderEvent(t, "metrics", 0)}},
		cancel:   cancel,
	}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedOrder()}, nil)
	reg := prometheus.NewRegistry()
	service.metrics = metrics.NewJobMetrics(reg)

	err := service.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []uuid.UUID{repo.events[0].ID}, repo.published)

	expected := `
# HELP job_success_total Successful background job runs.
# TYPE job_success_total counter
job_success_total{job="outbox_publish"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "job_success_total"))
}

// cancelingRepo cancels the run after handing out its first batch.
type cancelingRepo struct {
	fakeRepo
	cancel context.CancelFunc
}

func (c *cancelingRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	events, err := c.fakeRepo.FetchUnpublishedForPublish(tx, limit, maxAttempts)
	c.cancel()
	return events, err
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher, reg registryResolver, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()

	outboxCfg := config.OutboxConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:           &config.Config{Outbox: outboxCfg},
		Logger:           logg,
		DB:               &fakeDB{},
		PubSub:           &fakePubSubClient{},
		Repository:       repo,
		Registry:         reg,
		PublisherFactory: func(string) publisher { return pub },
	})
	require.NoError(t, err)
	return service
}

func newOrderEvent(tb testing.TB, eventID string, attempts int) models.OutboxEvent {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(env)
	require.NoError(tb, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
		AttemptCount:  attempts,
	}
}

func resolvedOrder() *registry.ResolvedEvent {
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			Topic:         "orders-topic",
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
		},
		Envelope: outbox.PayloadEnvelope{EventID: uuid.NewString(), OccurredAt: time.Now()},
		Payload:  &payloads.OrderCreatedEvent{},
	}
}

type fakeRepo struct {
	events           []models.OutboxEvent
	published        []uuid.UUID
	failed           []uuid.UUID
	terminal         []uuid.UUID
	terminalAttempts int
	publishErr       error
}

func (f *fakeRepo) FetchUnpublishedForPublish(*gorm.DB, int, int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(_ *gorm.DB, id uuid.UUID, _ time.Time) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(_ *gorm.DB, id uuid.UUID, _ error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(_ *gorm.DB, id uuid.UUID, maxAttempts int, _ error) error {
	f.terminal = append(f.terminal, id)
	f.terminalAttempts = maxAttempts
	return nil
}

type fakeDB struct {
	pingErr error
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePubSubClient struct {
	pingErr error
}

func (f *fakePubSubClient) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakePubSubClient) Publisher(string) *gcppubsub.Publisher {
	return nil
}

type fakePublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
	calls    int
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.calls++
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	return "", f.err
}

type fakeRegistry struct {
	resolved *registry.ResolvedEvent
	err      error
}

func (f *fakeRegistry) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	if f.resolved == nil {
		return nil, f.err
	}
	resolved := *f.resolved
	resolved.Envelope.EventID = event.ID.String()
	return &resolved, f.err
}
