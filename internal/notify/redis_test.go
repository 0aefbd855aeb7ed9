package notify

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisRelayPublishesLocallyWithoutSubscription(t *testing.T) {
	hub := NewHub()
	conn := &recordingConn{}
	relay := NewRedisRelay(nil, "test", hub)
	relay.Subscribe("f1", conn)

	if relay.Relaying() {
		t.Fatal("relay reports a subscription before Run")
	}
	if err := relay.Publish(context.Background(), "f1", NewHiredEvent("gig-1", "Logo")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if got := conn.Events(); len(got) != 1 || got[0].GigId != "gig-1" {
		t.Errorf("events = %+v", got)
	}
}

func TestRedisRelayKeepsDeliveringWhenRedisIsGone(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	hub := NewHub()
	conn := &recordingConn{}
	relay := NewRedisRelay(rdb, "test", hub)
	relay.Subscribe("f1", conn)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- relay.Run(ctx) }()

	if err := relay.Publish(context.Background(), "f1", NewHiredEvent("gig-1", "Logo")); err != nil {
		t.Fatalf("Publish while resubscribing: %v", err)
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Errorf("Run returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if relay.Relaying() {
		t.Error("relay still reports a subscription after Run stopped")
	}
	if err := relay.Publish(context.Background(), "f1", NewHiredEvent("gig-2", "Banner")); err != nil {
		t.Fatalf("Publish after Run stopped: %v", err)
	}

	got := conn.Events()
	if len(got) != 2 || got[0].GigId != "gig-1" || got[1].GigId != "gig-2" {
		t.Errorf("events = %+v", got)
	}
}
