// Package config loads the service configuration from defaults, an optional
// .env file and the environment, and validates it before startup.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration.
// Optional subsystems (Postgres, MongoDB, Kafka, NATS) are validated only when enabled.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Dispatcher  DispatcherConfig
	WorkerPool  WorkerPoolConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	NATS        NATSConfig
	Metrics     MetricsConfig
	Seed        SeedConfig
}

type ApplicationConfig struct {
	Env  string
	Name string
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DispatcherConfig controls event delivery retries
type DispatcherConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration // wait before the second attempt, doubled for each later one
	MaxBackoff     time.Duration
}

// WorkerPoolConfig bounds how many ledger operations run at once
type WorkerPoolConfig struct {
	Size int
}

// PostgresConfig configures the durable account snapshot store
type PostgresConfig struct {
	Enabled         bool
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig configures the transaction journal
type MongoDBConfig struct {
	Enabled         bool
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig configures event delivery and the journal projector consumer
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	EventsTopic       string
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// BrokerList splits the comma separated broker addresses
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type NATSConfig struct {
	Enabled       bool
	URL           string
	SubjectPrefix string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// SeedConfig controls loading of demonstration customers at startup
type SeedConfig struct {
	SampleData bool
}

func (c *Config) validate() error {
	var validationErrors []string
	add := func(msg string) { validationErrors = append(validationErrors, msg) }

	if c.Server.Port <= 0 {
		add("SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		add("SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		add("SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		add("SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if c.Dispatcher.MaxAttempts <= 0 {
		add("DISPATCH_MAX_ATTEMPTS must be greater than 0")
	}
	if c.Dispatcher.InitialBackoff <= 0 {
		add("DISPATCH_INITIAL_BACKOFF must be greater than 0")
	}
	if c.Dispatcher.MaxBackoff < c.Dispatcher.InitialBackoff {
		add("DISPATCH_MAX_BACKOFF must not be lower than DISPATCH_INITIAL_BACKOFF")
	}

	if c.WorkerPool.Size <= 0 {
		add("WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Postgres.Enabled {
		if c.Postgres.URL == "" {
			add("POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			add("POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			add("POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			add("POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			add("POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
		if c.Postgres.MigrationsPath == "" {
			add("POSTGRES_MIGRATIONS_PATH is required")
		}
	}

	if c.MongoDB.Enabled {
		if c.MongoDB.URI == "" {
			add("MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			add("MONGO_DATABASE is required")
		}
		if c.MongoDB.Timeout <= 0 {
			add("MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize == 0 {
			add("MONGO_MAX_POOL_SIZE must be greater than 0")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.BrokerList()) == 0 {
			add("KAFKA_BROKERS is required")
		}
		if c.Kafka.EventsTopic == "" {
			add("KAFKA_EVENTS_TOPIC is required")
		}
		if c.Kafka.ConsumerGroup == "" {
			add("KAFKA_CONSUMER_GROUP is required")
		}
		if c.Kafka.MinBytes <= 0 {
			add("KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
		}
		if c.Kafka.MaxBytes < c.Kafka.MinBytes {
			add("KAFKA_CONSUMER_MAX_BYTES must not be lower than KAFKA_CONSUMER_MIN_BYTES")
		}
		if c.Kafka.MaxWait <= 0 {
			add("KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
		}
		if c.Kafka.DLQTopic == "" {
			add("KAFKA_DLQ_TOPIC is required")
		}
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		add("NATS_URL is required")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		add("METRICS_PATH must start with /")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
