package kafka

import (
	"context"

	"media-editor/internal/config"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

// ProducerClient publishes edit events to the edits topic.
type ProducerClient struct {
	producer *wbkafka.Producer
	topic    string
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EditsTopic),
		topic:    cfg.Kafka.EditsTopic,
	}
}

func (p *ProducerClient) Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	return p.producer.SendWithRetry(ctx, strategy, key, value)
}

func (p *ProducerClient) Topic() string {
	return p.topic
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
