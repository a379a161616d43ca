package main

import (
	"github.com/urfave/cli/v3"
)

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database-url",
			Usage:    "Postgres connection URL",
			Required: true,
			Sources:  cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "queue-backend",
			Usage:   "Job queue backend: memory or redis",
			Value:   "memory",
			Sources: cli.EnvVars("QUEUE_BACKEND"),
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address, used when queue-backend=redis",
			Value:   "localhost:6379",
			Sources: cli.EnvVars("REDIS_ADDR"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus backend: gochannel or kafka",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma-separated Kafka broker list, used when event-bus=kafka",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "consumer-group",
			Usage:   "Kafka consumer group id",
			Value:   "integrail-engine",
			Sources: cli.EnvVars("CONSUMER_GROUP"),
		},
		&cli.IntFlag{
			Name:    "admin-port",
			Usage:   "Port for the admin HTTP surface",
			Value:   8080,
			Sources: cli.EnvVars("ADMIN_PORT"),
		},
		&cli.IntFlag{
			Name:    "executor-concurrency",
			Usage:   "Number of concurrent workflow-execution workers",
			Value:   5,
			Sources: cli.EnvVars("EXECUTOR_CONCURRENCY"),
		},
		&cli.IntFlag{
			Name:    "scheduler-sweep-seconds",
			Usage:   "Scheduler sweep cadence in seconds; must divide evenly into the shortest per-app polling interval",
			Value:   10,
			Sources: cli.EnvVars("SCHEDULER_SWEEP_SECONDS"),
		},
		&cli.IntFlag{
			Name:    "run-retention-days",
			Usage:   "Days to retain processed-trigger and log-entry rows",
			Value:   30,
			Sources: cli.EnvVars("RUN_RETENTION_DAYS"),
		},
		&cli.StringFlag{
			Name:    "terminal-failure-policy",
			Usage:   "Processed-trigger handling once a job exhausts retries: drop or dead_letter",
			Value:   "drop",
			Sources: cli.EnvVars("ON_TERMINAL_FAILURE"),
		},
		&cli.StringSliceFlag{
			Name:    "oauth-client",
			Usage:   "OAuth client config as app:client_id:client_secret:token_url, repeatable",
			Sources: cli.EnvVars("OAUTH_CLIENTS"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}
