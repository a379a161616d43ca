package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/actions"
	"github.com/dukex/integrail/internal/config"
	"github.com/dukex/integrail/internal/credentials"
	"github.com/dukex/integrail/internal/dedup"
	"github.com/dukex/integrail/internal/dispatcher"
	"github.com/dukex/integrail/internal/eventbus"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/executor"
	"github.com/dukex/integrail/internal/interpreter"
	"github.com/dukex/integrail/internal/notifier"
	"github.com/dukex/integrail/internal/queue"
	"github.com/dukex/integrail/internal/queue/memqueue"
	"github.com/dukex/integrail/internal/queue/redisqueue"
	"github.com/dukex/integrail/internal/registry"
	"github.com/dukex/integrail/internal/scheduler"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// deps bundles every wired component a subcommand might need.
type deps struct {
	cfg    config.Config
	logger *slog.Logger
	store  *postgres.Store
	bus    *eventbus.Bus
	queue  queue.Queue

	dispatcher *dispatcher.Dispatcher
	registry   *registry.Registry
	events     *eventlog.Log
	dedup      *dedup.Store

	interpreter *interpreter.Interpreter
	scheduler   *scheduler.Scheduler
	executor    *executor.Executor
}

func wire(ctx context.Context, cmd *cli.Command) (*deps, error) {
	oauthClients, err := config.ParseOAuthClients(cmd.StringSlice("oauth-client"))
	if err != nil {
		return nil, err
	}

	cfg := config.Config{
		DatabaseURL:            cmd.String("database-url"),
		QueueBackend:           config.QueueBackend(cmd.String("queue-backend")),
		RedisAddr:              cmd.String("redis-addr"),
		EventBus:               config.EventBusBackend(cmd.String("event-bus")),
		KafkaBrokers:           cmd.String("kafka-brokers"),
		ConsumerGroup:          cmd.String("consumer-group"),
		AdminPort:              int(cmd.Int("admin-port")),
		ExecutorConcurrency:    int(cmd.Int("executor-concurrency")),
		SchedulerSweepInterval: time.Duration(cmd.Int("scheduler-sweep-seconds")) * time.Second,
		TerminalFailurePolicy:  cmd.String("terminal-failure-policy"),
		OAuthClients:           oauthClients,
		LogLevel:               cmd.String("log-level"),
	}

	logger := slog.Default().With("module", "enginectl")

	store, err := postgres.Open(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)

	var bus *eventbus.Bus

	switch cfg.EventBus {
	case config.EventBusKafka:
		bus, err = eventbus.NewKafka(watermillLogger, cfg.KafkaBrokers, cfg.ConsumerGroup)
		if err != nil {
			return nil, fmt.Errorf("create kafka event bus: %w", err)
		}
	default:
		bus = eventbus.NewGoChannel(watermillLogger)
	}

	var jobQueue queue.Queue

	switch cfg.QueueBackend {
	case config.QueueRedis:
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		jobQueue = redisqueue.New(redisClient, "workflows", logger)
	default:
		jobQueue = memqueue.New()
	}

	credStore := credentials.New(store.Credentials)
	notif := notifier.New(bus, logger)
	events := eventlog.New(store.Logs, bus)
	dispatch := dispatcher.New(credStore, oauthClients, notif, events)

	reg := registry.New()
	actions.RegisterAll(reg)

	dedupStore := dedup.New(store.ProcessedTriggers)
	interp := interpreter.New(reg, dispatch.Call, events)

	sched := scheduler.New(store.Workflows, dedupStore, events, jobQueue, dispatch, logger).
		WithSweepInterval(cfg.SchedulerSweepInterval)
	exec := executor.New(jobQueue, store.Workflows, store.Runs, events, dedupStore, interp, logger).
		WithConcurrency(cfg.ExecutorConcurrency).
		WithTerminalFailurePolicy(executor.TerminalFailurePolicy(cfg.TerminalFailurePolicy))

	return &deps{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		bus:         bus,
		queue:       jobQueue,
		dispatcher:  dispatch,
		registry:    reg,
		events:      events,
		dedup:       dedupStore,
		interpreter: interp,
		scheduler:   sched,
		executor:    exec,
	}, nil
}

func (d *deps) close() {
	if err := d.queue.Close(); err != nil {
		d.logger.Error("close queue failed", "error", err)
	}

	if err := d.bus.Close(); err != nil {
		d.logger.Error("close event bus failed", "error", err)
	}

	if err := d.store.Close(); err != nil {
		d.logger.Error("close store failed", "error", err)
	}
}
