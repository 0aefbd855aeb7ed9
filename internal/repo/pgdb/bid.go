package pgdb

import (
	"context"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

// BidRepo serves read paths only. Bid inserts and status changes go through TxRepo.
type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	return scanBid(r.Database.QueryRowContext(ctx, getBidSql, args...))
}

func (r *BidRepo) GetGigBids(ctx context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := parseId(gigId)
	if err != nil {
		return nil, err
	}

	getGigBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bid.gig_id = ?", uuidForm).
		OrderBy("bid.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getGigBidsSql, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, classify(err)
	}

	return bids, nil
}

func (r *BidRepo) GetFreelancerBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(freelancerId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(joinedBidColumns).
		From("bid").
		InnerJoin("gig on gig.id = bid.gig_id").
		Where("bid.freelancer_id = ?", uuidForm).
		OrderBy("bid.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryJoinedBids(ctx, sqlReq, args)
}

func (r *BidRepo) GetBidsReceivedByOwner(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(ownerId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(joinedBidColumns).
		From("bid").
		InnerJoin("gig on gig.id = bid.gig_id").
		Where("gig.owner_id = ?", uuidForm).
		OrderBy("bid.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryJoinedBids(ctx, sqlReq, args)
}

func (r *BidRepo) queryJoinedBids(ctx context.Context, sqlReq string, args []any) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanJoinedBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, classify(err)
	}

	return bids, nil
}
