package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tapyrus-federation/signerd/crypto"
)

// wireMessage is the JSON-serializable form of Message put on the Redis
// channels. Grounded on the original node's use of the `redis` crate for
// pub/sub (original_source/src/signer_node/mod.rs) and the CLI's
// --redishost/--redisport flags (spec §6).
type wireMessage struct {
	Kind     string          `json:"message_type"`
	Sender   crypto.SignerID `json:"sender_id"`
	Receiver *crypto.SignerID `json:"receiver_id,omitempty"`
	Payload  []byte          `json:"payload"`
}

const broadcastChannel = "tapyrus-signer:broadcast"

func unicastChannel(id crypto.SignerID) string {
	return fmt.Sprintf("tapyrus-signer:unicast:%x", id[:])
}

// Redis is a Transport implementation backed by Redis pub/sub, one channel
// per signer for unicast plus a single shared broadcast channel.
type Redis struct {
	client *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedis connects to a Redis pub/sub endpoint (the --redishost/--redisport
// CLI flags, spec §6).
func NewRedis(addr string) *Redis {
	ctx, cancel := context.WithCancel(context.Background())
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start implements Transport.
func (r *Redis) Start(self crypto.SignerID) (<-chan Message, <-chan error) {
	sub := r.client.Subscribe(r.ctx, broadcastChannel, unicastChannel(self))

	inbox := make(chan Message, 256)
	errs := make(chan error, 1)

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-r.ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var wm wireMessage
				if err := json.Unmarshal([]byte(m.Payload), &wm); err != nil {
					select {
					case errs <- fmt.Errorf("decode message: %w", err):
					default:
					}
					continue
				}
				inbox <- Message{
					Kind:     wm.Kind,
					Sender:   wm.Sender,
					Receiver: wm.Receiver,
					Payload:  wm.Payload,
				}
			}
		}
	}()

	return inbox, errs
}

// Stop implements Transport.
func (r *Redis) Stop() {
	r.cancel()
	_ = r.client.Close()
}

// Broadcast implements Transport.
func (r *Redis) Broadcast(msg Message) error {
	return r.publish(broadcastChannel, msg)
}

// Send implements Transport.
func (r *Redis) Send(msg Message, to crypto.SignerID) error {
	return r.publish(unicastChannel(to), msg)
}

func (r *Redis) publish(channel string, msg Message) error {
	wm := wireMessage{Kind: msg.Kind, Sender: msg.Sender, Receiver: msg.Receiver, Payload: msg.Payload}
	b, err := json.Marshal(wm)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return r.client.Publish(r.ctx, channel, b).Err()
}
