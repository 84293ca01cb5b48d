package broker

import (
	"context"

	"github.com/wb-go/wbf/retry"
)

type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
}

type Producer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

type Consumer interface {
	Fetch(ctx context.Context, strategy retry.Strategy) (*Message, error)
	Commit(ctx context.Context, msg *Message) error
	Start(ctx context.Context, out chan<- *Message, strategy retry.Strategy)
	Close() error
}
