package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "realtime:"

// Envelope is the wire format carried over redis and down each websocket.
type Envelope struct {
	Topic   string      `json:"topic"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Relay publishes realtime events by topic. Publish failures never fail the
// state mutation that triggered them; callers log and continue.
type Relay interface {
	Publish(ctx context.Context, topic, event string, payload interface{}) error
}

type redisRelay struct {
	client *redis.Client
}

// NewRedisRelay builds a relay over redis Pub/Sub, which carries events
// across instances to whichever one holds the receiver's socket.
func NewRedisRelay(client *redis.Client) Relay {
	return &redisRelay{client: client}
}

func (r *redisRelay) Publish(ctx context.Context, topic, event string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Topic: topic, Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channelPrefix+topic, data).Err()
}

// RunBridge subscribes to all relay channels and forwards envelopes to the
// hub until the context is cancelled.
func RunBridge(ctx context.Context, client *redis.Client, hub *Hub, logger *zap.Logger) {
	pubsub := client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close() //nolint:errcheck

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			topic := strings.TrimPrefix(msg.Channel, channelPrefix)
			hub.BroadcastTo(topic, []byte(msg.Payload))
		}
	}
}
