package repo

import (
	"context"
	"time"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo/pgdb"
	"freelance-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error)
	GetGigById(ctx context.Context, id string) (*entity.Gig, error)
	GetOpenGigs(ctx context.Context, search string, pg *entity.PaginationInput) ([]entity.Gig, error)
	GetGigsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error)
}

type Bid interface {
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetGigBids(ctx context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetFreelancerBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetBidsReceivedByOwner(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Bid, error)
}

// Tx is the set of reads and writes that must run inside one store transaction.
// Only the bid submission guard and the hiring coordinator use it; nothing
// else writes status columns.
type Tx interface {
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	// LockGigForUpdate takes an exclusive row lock on the gig until the transaction ends.
	LockGigForUpdate(ctx context.Context, id string) (*entity.Gig, error)
	// LockGigForShare takes a shared row lock; it conflicts with LockGigForUpdate.
	LockGigForShare(ctx context.Context, id string) (*entity.Gig, error)
	InsertBid(ctx context.Context, input *entity.CreateBidInput) (*entity.Bid, error)
	UpdateGigStatus(ctx context.Context, gigId string, from string, to string) (*entity.Gig, error)
	UpdateBidStatus(ctx context.Context, bidId string, from string, to string) (*entity.Bid, error)
	RejectPendingBids(ctx context.Context, gigId string, exceptBidId string) (int64, error)
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type Repositories struct {
	Diagnostics
	Gig
	Bid
	Transactor
}

func NewRepositories(p *postgres.Postgres, lockTimeout time.Duration) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Gig:         pgdb.NewGigRepo(p),
		Bid:         pgdb.NewBidRepo(p),
		Transactor:  newTransactor(pgdb.NewTxRunner(p, lockTimeout)),
	}
}

// transactor adapts the concrete pgdb runner to the Tx interface so pgdb
// does not need to import this package.
type transactor struct {
	runner *pgdb.TxRunner
}

func newTransactor(r *pgdb.TxRunner) *transactor {
	return &transactor{runner: r}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return t.runner.WithinTx(ctx, func(tx *pgdb.TxRepo) error {
		return fn(tx)
	})
}
