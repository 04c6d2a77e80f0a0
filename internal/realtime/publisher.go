package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Publisher carries a serialized event to the hubs that serve clients.
type Publisher interface {
	Publish(ctx context.Context, scope Subscription, payload []byte) error
}

// LocalPublisher delivers straight to the in-process hub.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(h *Hub) *LocalPublisher {
	return &LocalPublisher{hub: h}
}

func (p *LocalPublisher) Publish(_ context.Context, scope Subscription, payload []byte) error {
	p.hub.Broadcast(payload, scope)
	return nil
}

const DefaultChannel = "branch-queue:events"

type busMessage struct {
	Scope   Subscription    `json:"scope"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBridge publishes events on a Redis channel and relays everything
// received on it to the local hub, so each instance reaches its own clients.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRedisBridge(client *redis.Client, channel string, h *Hub) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBridge{
		client:  client,
		channel: channel,
		hub:     h,
		done:    make(chan struct{}),
	}
}

func (b *RedisBridge) Publish(ctx context.Context, scope Subscription, payload []byte) error {
	data, err := json.Marshal(busMessage{Scope: scope, Payload: payload})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Start subscribes and relays messages until Close.
func (b *RedisBridge) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		b.cancel()
		b.cancel = nil
		_ = pubsub.Close()
		return err
	}

	go func() {
		defer close(b.done)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.relay([]byte(msg.Payload))
			}
		}
	}()

	log.Info().Str("channel", b.channel).Msg("realtime redis bridge started")
	return nil
}

func (b *RedisBridge) relay(data []byte) {
	var msg busMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("channel", b.channel).Msg("invalid realtime bus message")
		return
	}
	b.hub.Broadcast(msg.Payload, msg.Scope)
}

func (b *RedisBridge) Close() {
	b.once.Do(func() {
		if b.cancel == nil {
			close(b.done)
			return
		}
		b.cancel()
	})
	<-b.done
}
