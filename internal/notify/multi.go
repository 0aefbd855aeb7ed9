package notify

import (
	"context"
	"errors"
)

type Notifier interface {
	NotifyHired(ctx context.Context, userId string, gigId string, gigTitle string) error
}

// Multi calls every notifier, even after one fails.
type Multi []Notifier

func (m Multi) NotifyHired(ctx context.Context, userId string, gigId string, gigTitle string) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyHired(ctx, userId, gigId, gigTitle); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
