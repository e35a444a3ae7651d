package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const channel = "honeymart:refresh"

// RedisBus implements Publisher and Subscriber over Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisBus(redisURL string) (*RedisBus, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBus{
		client: client,
		ctx:    ctx,
	}, nil
}

func (b *RedisBus) Publish(event RefreshEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(b.ctx, channel, data).Err()
}

// Subscribe opens a dedicated pub/sub subscription. Stopping it closes the
// underlying PubSub, which ends the forwarding goroutine and the channel.
func (b *RedisBus) Subscribe() (<-chan RefreshEvent, func(), error) {
	pubsub := b.client.Subscribe(b.ctx, channel)
	if _, err := pubsub.Receive(b.ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	eventChan := make(chan RefreshEvent, 16)

	go func() {
		defer close(eventChan)

		for msg := range pubsub.Channel() {
			var event RefreshEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			// Non-blocking send: a stalled consumer drops events instead of
			// wedging the forwarding goroutine
			select {
			case eventChan <- event:
			default:
			}
		}
	}()

	stop := func() { pubsub.Close() }
	return eventChan, stop, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
