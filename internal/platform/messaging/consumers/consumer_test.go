package consumers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader serves a fixed list of fetch results and then blocks until ctx ends
type scriptedReader struct {
	mu        sync.Mutex
	fetches   []fetchResult
	committed []int64
	closed    bool
}

type fetchResult struct {
	msg kafka.Message
	err error
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetches) > 0 {
		next := r.fetches[0]
		r.fetches = r.fetches[1:]
		r.mu.Unlock()
		return next.msg, next.err
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func (r *scriptedReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewKafkaConsumer(t *testing.T) {
	cfg := &config.KafkaConfig{
		Brokers:       "localhost:9092,localhost:9093",
		EventsTopic:   "test-topic",
		ConsumerGroup: "test-group",
		MinBytes:      1024,
		MaxBytes:      10240,
		MaxWait:       time.Second,
		StartOffset:   kafka.FirstOffset,
	}

	consumer := NewKafkaConsumer(testLogger(), cfg)
	require.NotNil(t, consumer)
	require.NotNil(t, consumer.reader, "Kafka reader should be initialized")
	assert.Equal(t, "test-topic", consumer.topic)
	assert.Equal(t, "test-group", consumer.groupID)
	require.NoError(t, consumer.Close())
}

func TestKafkaConsumer_Subscribe(t *testing.T) {
	reader := &scriptedReader{fetches: []fetchResult{
		{msg: kafka.Message{Offset: 1, Key: []byte("a"), Value: []byte("ok")}},
		{err: errors.New("broker hiccup")},
		{msg: kafka.Message{Offset: 2, Key: []byte("b"), Value: []byte("fail")}},
		{msg: kafka.Message{Offset: 3, Key: []byte("c"), Value: []byte("ok")}},
	}}
	consumer := &KafkaConsumer{
		reader:       reader,
		topic:        "events",
		groupID:      "group",
		fetchBackoff: time.Millisecond,
		logger:       testLogger(),
		done:         make(chan struct{}),
	}

	var mu sync.Mutex
	var handled []string
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, consumer.Subscribe(ctx, func(_ context.Context, key, value []byte) error {
		mu.Lock()
		handled = append(handled, string(key))
		mu.Unlock()
		if string(value) == "fail" {
			return errors.New("handler failed")
		}
		return nil
	}))

	assert.Eventually(t, func() bool { return len(reader.Committed()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-consumer.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	assert.Equal(t, []int64{1, 3}, reader.Committed())
	mu.Lock()
	assert.Equal(t, []string{"a", "b", "c"}, handled)
	mu.Unlock()

	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}

func TestKafkaConsumer_Close(t *testing.T) {
	t.Run("CloseWithNilReader", func(t *testing.T) {
		consumer := &KafkaConsumer{
			reader: nil,
			logger: testLogger(),
		}
		require.NoError(t, consumer.Close(), "Close should return nil if reader is nil")
	})
}
