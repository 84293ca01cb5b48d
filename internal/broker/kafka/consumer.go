package kafka

import (
	"context"

	"media-editor/internal/broker"
	"media-editor/internal/config"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

// ConsumerClient reads edit events for the readiness worker and adapts
// them to broker.Message.
type ConsumerClient struct {
	consumer *wbkafka.Consumer
}

func NewConsumerClient(cfg *config.Config) *ConsumerClient {
	return &ConsumerClient{
		consumer: wbkafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.EditsTopic, cfg.Kafka.GroupID),
	}
}

func (c *ConsumerClient) Fetch(ctx context.Context, strategy retry.Strategy) (*broker.Message, error) {
	msg, err := c.consumer.FetchWithRetry(ctx, strategy)
	if err != nil {
		return nil, err
	}
	return fromKafka(msg), nil
}

func (c *ConsumerClient) Commit(ctx context.Context, msg *broker.Message) error {
	return c.consumer.Commit(ctx, toKafka(msg))
}

// Start pumps messages into out until ctx is done.
func (c *ConsumerClient) Start(ctx context.Context, out chan<- *broker.Message, strategy retry.Strategy) {
	raw := make(chan kafka.Message, cap(out))
	c.consumer.StartConsuming(ctx, raw, strategy)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				select {
				case out <- fromKafka(msg):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (c *ConsumerClient) Close() error {
	return c.consumer.Close()
}

func fromKafka(msg kafka.Message) *broker.Message {
	return &broker.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
	}
}

func toKafka(msg *broker.Message) kafka.Message {
	return kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
	}
}
