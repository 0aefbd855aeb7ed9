package service

import (
	"context"
	"time"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error)
	GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error)
	GetOpenGigs(ctx context.Context, search string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error)
	GetUserGigs(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error)
}

type Bid interface {
	SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBidsForGig(ctx context.Context, gigId string, userId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, userId string, pg *entity.PaginationInput) (*entity.UserBidsOutputModel, error)
}

type Hiring interface {
	Hire(ctx context.Context, bidId string, actingUserId string) (*entity.HireOutputModel, error)
}

// Notifier delivers the "hired" event. Implementations are best-effort.
type Notifier interface {
	NotifyHired(ctx context.Context, userId string, gigId string, gigTitle string) error
}

type Options struct {
	// TxTimeout bounds a whole hire or bid submission transaction.
	TxTimeout time.Duration
	// NotifyTimeout bounds post-commit notification delivery.
	NotifyTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.TxTimeout <= 0 {
		o.TxTimeout = 5 * time.Second
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 2 * time.Second
	}

	return o
}

type Services struct {
	Diagnostics Diagnostics
	Gig         Gig
	Bid         Bid
	Hiring      Hiring
}

func NewServices(repos *repo.Repositories, notifier Notifier, opts Options) *Services {
	opts = opts.withDefaults()

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Gig:         NewGigService(repos),
		Bid:         NewBidService(repos, opts),
		Hiring:      NewHiringService(repos, notifier, opts),
	}
}
