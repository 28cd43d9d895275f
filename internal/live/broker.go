package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// receiveBackoff is the pause after a failed receive while Redis is unreachable.
const receiveBackoff = 500 * time.Millisecond

// RedisBroker carries changes over a Redis pub/sub channel so that every
// API instance refreshes its live clients.
type RedisBroker struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

func NewRedisBroker(client *redis.Client, channel string, log *logrus.Logger) *RedisBroker {
	return &RedisBroker{client: client, channel: channel, log: log}
}

func (b *RedisBroker) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe returns once the subscription is confirmed by the server.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Change, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	changes := make(chan Change, 100)

	// ReceiveMessage does not observe ctx once blocked on the socket, so
	// closing the subscription is what unblocks it.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pubsub.Close()
		case <-stop:
		}
	}()

	go func() {
		defer func() {
			close(stop)
			pubsub.Close()
			close(changes)
		}()

		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
					return
				}
				b.log.Warnf("Failed to receive change: %+v", err)
				select {
				case <-time.After(receiveBackoff):
				case <-ctx.Done():
					return
				}
				continue
			}

			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				b.log.Warnf("Failed to decode change: %+v", err)
				continue
			}

			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		}
	}()

	return changes, nil
}
