package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/notify"

	"github.com/labstack/echo"
	"github.com/labstack/gommon/log"
)

var errSlowConsumer = errors.New("event stream buffer is full")

// sseConn buffers events for one stream. Send never blocks the publisher.
type sseConn struct {
	events chan notify.Event
}

func newSSEConn(buffer int) *sseConn {
	return &sseConn{events: make(chan notify.Event, buffer)}
}

func (s *sseConn) Send(event notify.Event) error {
	select {
	case s.events <- event:
		return nil
	default:
		return errSlowConsumer
	}
}

type notificationRoutesHandler struct {
	registry  notify.Registry
	heartbeat time.Duration
	buffer    int
	done      <-chan struct{}
}

func newNotificationRoutesHandler(outer *echo.Group, auth echo.MiddlewareFunc, registry notify.Registry, opts RouterOptions) *notificationRoutesHandler {
	h := &notificationRoutesHandler{
		registry:  registry,
		heartbeat: opts.SSEHeartbeat,
		buffer:    opts.SSEBuffer,
		done:      opts.Done,
	}
	outer.GET("/notifications/stream", h.Stream, auth)

	return h
}

// /notifications/stream
func (h *notificationRoutesHandler) Stream(c echo.Context) error {
	userId := currentUser(c)
	ctx := c.Request().Context()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	conn := newSSEConn(h.buffer)
	h.registry.Subscribe(userId, conn)
	defer h.registry.Unsubscribe(userId, conn)

	if _, err := fmt.Fprint(res, ":\n\n"); err != nil {
		return nil
	}
	res.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case event := <-conn.events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Errorf("notifications: encode event for %s: %v", userId, err)
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", common.HiredEvent, payload); err != nil {
				return nil
			}
			res.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ":\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
