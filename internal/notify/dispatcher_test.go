package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifyHired(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func TestDispatcherPublishesHiredEvent(t *testing.T) {
	hub := NewHub()
	hired, passedOver := &recordingConn{}, &recordingConn{}
	hub.Subscribe("f1", hired)
	hub.Subscribe("f2", passedOver)

	if err := NewDispatcher(hub).NotifyHired(context.Background(), "f1", "gig-1", "Logo"); err != nil {
		t.Fatalf("NotifyHired: %v", err)
	}

	got := hired.Events()
	if len(got) != 1 {
		t.Fatalf("hired freelancer got %d events, want 1", len(got))
	}
	if got[0].GigId != "gig-1" || got[0].GigTitle != "Logo" {
		t.Errorf("event = %+v", got[0])
	}
	if len(passedOver.Events()) != 0 {
		t.Errorf("other freelancer was notified")
	}
}

func TestMultiCallsAllNotifiers(t *testing.T) {
	failed := &stubNotifier{err: errors.New("broker down")}
	ok := &stubNotifier{}

	err := Multi{failed, ok}.NotifyHired(context.Background(), "f1", "g", "t")
	if !errors.Is(err, failed.err) {
		t.Errorf("err = %v", err)
	}
	if failed.calls != 1 || ok.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", failed.calls, ok.calls)
	}

	if err := (Multi{}).NotifyHired(context.Background(), "f1", "g", "t"); err != nil {
		t.Errorf("empty Multi: %v", err)
	}
}

func TestRedisRelayDeliversEnvelopeLocally(t *testing.T) {
	hub := NewHub()
	conn := &recordingConn{}
	relay := NewRedisRelay(nil, "test", hub)
	relay.Subscribe("f1", conn)

	payload, err := json.Marshal(envelope{UserId: "f1", Event: NewHiredEvent("gig-1", "Logo")})
	if err != nil {
		t.Fatal(err)
	}
	relay.deliver(context.Background(), string(payload))
	relay.deliver(context.Background(), "{not json")

	if got := conn.Events(); len(got) != 1 || got[0].GigId != "gig-1" {
		t.Errorf("events = %+v", got)
	}

	relay.Unsubscribe("f1", conn)
	if hub.Connections("f1") != 0 {
		t.Errorf("relay did not unsubscribe from local hub")
	}
}

func TestAmqpPublisherEncode(t *testing.T) {
	p := NewAmqpPublisher("amqp://unused", "gig.hired")
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	body, err := p.encode("f1", "gig-1", "Logo")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var msg HiredMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := HiredMessage{FreelancerId: "f1", GigId: "gig-1", GigTitle: "Logo", HiredAt: "2024-05-01T12:00:00Z"}
	if msg != want {
		t.Errorf("message = %+v, want %+v", msg, want)
	}
}

func TestAmqpPublisherCloseWithoutConnection(t *testing.T) {
	if err := NewAmqpPublisher("amqp://unused", "q").Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
