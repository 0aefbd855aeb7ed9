package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

func DialRedis(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}

type envelope struct {
	UserId string `json:"userId"`
	Event  Event  `json:"event"`
}

const (
	minRelayBackoff = 500 * time.Millisecond
	maxRelayBackoff = 30 * time.Second
)

var errRelayClosed = errors.New("redis subscription channel closed")

// RedisRelay is a Registry shared by several API processes. Connections stay
// in the local Hub; while Run holds a live subscription, Publish goes through
// a Redis channel and every process delivers to its own local connections.
// Without a live subscription Publish delivers to the local Hub directly.
type RedisRelay struct {
	local      *Hub
	rdb        *redis.Client
	channel    string
	subscribed atomic.Bool
}

func NewRedisRelay(rdb *redis.Client, channel string, local *Hub) *RedisRelay {
	return &RedisRelay{local: local, rdb: rdb, channel: channel}
}

func (r *RedisRelay) Subscribe(userId string, conn Conn) {
	r.local.Subscribe(userId, conn)
}

func (r *RedisRelay) Unsubscribe(userId string, conn Conn) {
	r.local.Unsubscribe(userId, conn)
}

// Relaying reports whether events currently travel through Redis.
func (r *RedisRelay) Relaying() bool {
	return r.subscribed.Load()
}

func (r *RedisRelay) Publish(ctx context.Context, userId string, event Event) error {
	if !r.subscribed.Load() {
		return r.local.Publish(ctx, userId, event)
	}

	payload, err := json.Marshal(envelope{UserId: userId, Event: event})
	if err != nil {
		return fmt.Errorf("encode relay message: %w", err)
	}

	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		log.Warnf("notify: redis publish %s failed, delivering locally: %v", r.channel, err)
		return r.local.Publish(ctx, userId, event)
	}

	return nil
}

// Run keeps a subscription open until ctx is done, resubscribing with
// backoff when Redis drops it.
func (r *RedisRelay) Run(ctx context.Context) error {
	backoff := minRelayBackoff
	for {
		connected, err := r.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			backoff = minRelayBackoff
		}
		log.Warnf("notify: redis relay on %s interrupted, retrying in %s: %v", r.channel, backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		backoff = min(backoff*2, maxRelayBackoff)
	}
}

func (r *RedisRelay) listen(ctx context.Context) (bool, error) {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return false, fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}

	r.subscribed.Store(true)
	defer r.subscribed.Store(false)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return true, errRelayClosed
			}
			r.deliver(ctx, msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(ctx context.Context, payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Warnf("notify: drop malformed relay message: %v", err)
		return
	}

	if err := r.local.Publish(ctx, env.UserId, env.Event); err != nil {
		log.Warnf("notify: local delivery for user %s: %v", env.UserId, err)
	}
}
