package producers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

var ErrNoBrokers = errors.New("no kafka brokers configured")

// EnsureTopic creates topic on the cluster controller when it does not exist yet
func EnsureTopic(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, topic string) error {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return ErrNoBrokers
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to find kafka controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	backoff := retry.WithMaxRetries(4, retry.NewConstant(2*time.Second))
	return createKafkaTopicIfNotExists(ctx, controllerConn, kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}, backoff, logger)
}

// createKafkaTopicIfNotExists creates the topic if no partitions can be read, retrying reads with backoff
func createKafkaTopicIfNotExists(ctx context.Context, admin topicAdmin, topicConfig kafka.TopicConfig, backoff retry.Backoff, log *slog.Logger) error {
	var partitions []kafka.Partition

	log.Info("Checking if Kafka topic exists", "topic", topicConfig.Topic)
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var readErr error
		partitions, readErr = admin.ReadPartitions(topicConfig.Topic)
		if readErr != nil {
			log.Warn("Failed to read partitions, retrying...", "topic", topicConfig.Topic, "attempt", attempt, "error", readErr)
			return retry.RetryableError(readErr)
		}
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topicConfig.Topic, "partitions", len(partitions))
		return nil
	}

	log.Info("Kafka topic does not exist or is not accessible, attempting to create it", "topic", topicConfig.Topic, "last_error_read", err)
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicConfig.Topic, err)
	}
	log.Info("Successfully created Kafka topic", "topic", topicConfig.Topic)
	return nil
}
