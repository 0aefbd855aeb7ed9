// Package notify delivers the "hired" event to a freelancer's live connections.
package notify

import (
	"context"
	"fmt"
)

// Event is the payload pushed to the client under the "hired" event name.
type Event struct {
	GigId    string `json:"gigId"`
	GigTitle string `json:"gigTitle"`
	Message  string `json:"message"`
}

func NewHiredEvent(gigId string, gigTitle string) Event {
	return Event{
		GigId:    gigId,
		GigTitle: gigTitle,
		Message:  fmt.Sprintf(`You have been hired for "%s"!`, gigTitle),
	}
}

// Conn is one live client connection, e.g. a browser tab's event stream.
type Conn interface {
	Send(event Event) error
}

// Registry maps user ids to their live connections.
type Registry interface {
	Subscribe(userId string, conn Conn)
	Unsubscribe(userId string, conn Conn)
	Publish(ctx context.Context, userId string, event Event) error
}
