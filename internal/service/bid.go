package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo"
	"freelance-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type BidService struct {
	bidRepo    repo.Bid
	gigRepo    repo.Gig
	transactor repo.Transactor
	txTimeout  time.Duration
}

func NewBidService(repos *repo.Repositories, opts Options) *BidService {
	opts = opts.withDefaults()

	return &BidService{
		bidRepo:    repos.Bid,
		gigRepo:    repos.Gig,
		transactor: repos.Transactor,
		txTimeout:  opts.TxTimeout,
	}
}

// SubmitBid creates a pending bid. The gig row is share-locked for the
// duration of the insert, so a concurrent hire either sees this bid and
// rejects it, or commits first and this call observes the assigned gig.
// Duplicate bids are rejected by the (gig_id, freelancer_id) unique key.
func (s *BidService) SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	freelancerId, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return nil, fmt.Errorf("submit bid: bad freelancer id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var created *entity.Bid
	err = s.transactor.WithinTx(ctx, func(tx repo.Tx) error {
		gig, err := tx.LockGigForShare(ctx, input.GigId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrGigNotFound
			}

			return err
		}

		if gig.Status != common.GigOpen {
			return ErrGigNotAcceptingBids
		}

		if gig.OwnerId == freelancerId {
			return ErrCannotBidOnOwnGig
		}

		bid, err := tx.InsertBid(ctx, input)
		if err != nil {
			if errors.Is(err, repo_errors.ErrUniqueViolation) {
				return ErrAlreadyBid
			}

			return err
		}
		created = bid

		return nil
	})
	if err != nil {
		return nil, txError("submit bid", err)
	}

	return mapBid(created), nil
}

func (s *BidService) GetBidsForGig(ctx context.Context, gigId string, userId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, storeError("get gig", err)
	}

	if !sameUser(gig.OwnerId, userId) {
		return nil, ErrNotGigOwner
	}

	bids, err := s.bidRepo.GetGigBids(ctx, gigId, pg)
	if err != nil {
		return nil, storeError("list gig bids", err)
	}

	return mapBids(bids), nil
}

func (s *BidService) GetUserBids(ctx context.Context, userId string, pg *entity.PaginationInput) (*entity.UserBidsOutputModel, error) {
	submitted, err := s.bidRepo.GetFreelancerBids(ctx, userId, pg)
	if err != nil {
		return nil, storeError("list submitted bids", err)
	}

	received, err := s.bidRepo.GetBidsReceivedByOwner(ctx, userId, pg)
	if err != nil {
		return nil, storeError("list received bids", err)
	}

	return &entity.UserBidsOutputModel{
		SubmittedBids: mapBids(submitted),
		ReceivedBids:  mapBids(received),
	}, nil
}

// txError keeps typed errors raised inside a transaction and classifies the rest.
func txError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}

	return storeError(op, err)
}
