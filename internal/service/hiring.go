package service

import (
	"context"
	"errors"
	"time"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo"
	"freelance-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// HiringService moves a gig from open to assigned, hires one bid and rejects
// the other pending bids in a single transaction, then notifies the hired
// freelancer.
type HiringService struct {
	transactor    repo.Transactor
	notifier      Notifier
	txTimeout     time.Duration
	notifyTimeout time.Duration
}

func NewHiringService(repos *repo.Repositories, notifier Notifier, opts Options) *HiringService {
	opts = opts.withDefaults()

	return &HiringService{
		transactor:    repos.Transactor,
		notifier:      notifier,
		txTimeout:     opts.TxTimeout,
		notifyTimeout: opts.NotifyTimeout,
	}
}

// Hire checks, in order: bid exists, gig exists, caller owns the gig, gig is
// open. The gig row is locked FOR UPDATE before the status check, so
// concurrent hires on one gig commit one at a time and all but the first see
// an assigned gig.
func (s *HiringService) Hire(ctx context.Context, bidId string, actingUserId string) (*entity.HireOutputModel, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var gig *entity.Gig
	var bid *entity.Bid
	err := s.transactor.WithinTx(txCtx, func(tx repo.Tx) error {
		target, err := tx.GetBidById(txCtx, bidId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrBidNotFound
			}

			return err
		}

		locked, err := tx.LockGigForUpdate(txCtx, target.GigId.String())
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				log.Errorf("hire: bid %s references missing gig %s", target.Id, target.GigId)
				return ErrGigNotFound
			}

			return err
		}

		if !sameUser(locked.OwnerId, actingUserId) {
			return ErrNotGigOwner
		}

		if locked.Status != common.GigOpen {
			return ErrGigAlreadyAssigned
		}

		assigned, err := tx.UpdateGigStatus(txCtx, locked.Id.String(), common.GigOpen, common.GigAssigned)
		if err != nil {
			if errors.Is(err, repo_errors.ErrStaleStatus) {
				return ErrGigAlreadyAssigned
			}

			return err
		}

		hired, err := tx.UpdateBidStatus(txCtx, target.Id.String(), common.BidPending, common.BidHired)
		if err != nil {
			if errors.Is(err, repo_errors.ErrStaleStatus) {
				return ErrBidAlreadyDecided
			}

			return err
		}

		rejected, err := tx.RejectPendingBids(txCtx, locked.Id.String(), target.Id.String())
		if err != nil {
			return err
		}
		log.Debugf("hire: gig %s assigned to bid %s, %d competing bids rejected", assigned.Id, hired.Id, rejected)

		gig, bid = assigned, hired

		return nil
	})
	if err != nil {
		return nil, txError("hire", err)
	}

	s.notifyHired(ctx, gig, bid)

	return &entity.HireOutputModel{
		Gig: *mapGig(gig),
		Bid: *mapBid(bid),
	}, nil
}

// notifyHired runs after commit. Its failures are logged and never reach the caller.
func (s *HiringService) notifyHired(ctx context.Context, gig *entity.Gig, bid *entity.Bid) {
	if s.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("hire: notifier panicked for gig %s: %v", gig.Id, r)
		}
	}()

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyHired(nctx, bid.FreelancerId.String(), gig.Id.String(), gig.Title); err != nil {
		log.Warnf("hire: notify freelancer %s about gig %s: %v", bid.FreelancerId, gig.Id, err)
	}
}

func sameUser(id uuid.UUID, userId string) bool {
	parsed, err := uuid.Parse(userId)
	if err != nil {
		return false
	}

	return parsed == id
}
