package notify

import (
	"context"
)

type Dispatcher struct {
	registry Registry
}

func NewDispatcher(registry Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

func (d *Dispatcher) NotifyHired(ctx context.Context, userId string, gigId string, gigTitle string) error {
	return d.registry.Publish(ctx, userId, NewHiredEvent(gigId, gigTitle))
}
