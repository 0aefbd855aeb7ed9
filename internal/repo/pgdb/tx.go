package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo/repo_errors"
	"freelance-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type TxRunner struct {
	*postgres.Postgres
	lockTimeout time.Duration
}

func NewTxRunner(pgdb *postgres.Postgres, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{Postgres: pgdb, lockTimeout: lockTimeout}
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken by fn are
// bounded by lock_timeout, so a blocked caller fails with ErrUnavailable
// instead of waiting forever.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(tx *TxRepo) error) error {
	tx, err := r.Database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if r.lockTimeout > 0 {
		setTimeoutSql := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, setTimeoutSql); err != nil {
			return classify(err)
		}
	}

	if err := fn(&TxRepo{tx: tx, sb: r.SqlBuilder}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	committed = true

	return nil
}

type TxRepo struct {
	tx *sql.Tx
	sb squirrel.StatementBuilderType
}

func (r *TxRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.sb.
		Select(bidColumns).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	return scanBid(r.tx.QueryRowContext(ctx, getBidSql, args...))
}

func (r *TxRepo) LockGigForUpdate(ctx context.Context, id string) (*entity.Gig, error) {
	return r.lockGig(ctx, id, "FOR UPDATE")
}

func (r *TxRepo) LockGigForShare(ctx context.Context, id string) (*entity.Gig, error) {
	return r.lockGig(ctx, id, "FOR SHARE")
}

func (r *TxRepo) lockGig(ctx context.Context, id string, lockClause string) (*entity.Gig, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	lockGigSql, args, _ := r.sb.
		Select(gigColumns).
		From("gig").
		Where("gig.id = ?", uuidForm).
		Suffix(lockClause).
		ToSql()

	return scanGig(r.tx.QueryRowContext(ctx, lockGigSql, args...))
}

func (r *TxRepo) InsertBid(ctx context.Context, input *entity.CreateBidInput) (*entity.Bid, error) {
	gigId, err := parseId(input.GigId)
	if err != nil {
		return nil, err
	}
	freelancerId, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return nil, err
	}

	insertBidSql, args, _ := r.sb.
		Insert("bid").
		Columns("gig_id", "freelancer_id", "message", "price", "status").
		Values(gigId, freelancerId, input.Message, input.Price, common.BidPending).
		Suffix(bidReturning).
		ToSql()

	return scanBid(r.tx.QueryRowContext(ctx, insertBidSql, args...))
}

func (r *TxRepo) UpdateGigStatus(ctx context.Context, gigId string, from string, to string) (*entity.Gig, error) {
	uuidForm, err := parseId(gigId)
	if err != nil {
		return nil, err
	}

	updateStatusSql, args, _ := r.sb.
		Update("gig").
		Set("status", to).
		Where("id = ?", uuidForm).
		Where("status = ?", from).
		Suffix(gigReturning).
		ToSql()

	gig, err := scanGig(r.tx.QueryRowContext(ctx, updateStatusSql, args...))
	if errors.Is(err, repo_errors.ErrNotFound) {
		return nil, repo_errors.ErrStaleStatus
	}

	return gig, err
}

func (r *TxRepo) UpdateBidStatus(ctx context.Context, bidId string, from string, to string) (*entity.Bid, error) {
	uuidForm, err := parseId(bidId)
	if err != nil {
		return nil, err
	}

	updateStatusSql, args, _ := r.sb.
		Update("bid").
		Set("status", to).
		Where("id = ?", uuidForm).
		Where("status = ?", from).
		Suffix(bidReturning).
		ToSql()

	bid, err := scanBid(r.tx.QueryRowContext(ctx, updateStatusSql, args...))
	if errors.Is(err, repo_errors.ErrNotFound) {
		return nil, repo_errors.ErrStaleStatus
	}

	return bid, err
}

func (r *TxRepo) RejectPendingBids(ctx context.Context, gigId string, exceptBidId string) (int64, error) {
	gigUuid, err := parseId(gigId)
	if err != nil {
		return 0, err
	}
	exceptUuid, err := parseId(exceptBidId)
	if err != nil {
		return 0, err
	}

	rejectSql, args, _ := r.sb.
		Update("bid").
		Set("status", common.BidRejected).
		Where("gig_id = ?", gigUuid).
		Where("id <> ?", exceptUuid).
		Where("status = ?", common.BidPending).
		ToSql()

	res, err := r.tx.ExecContext(ctx, rejectSql, args...)
	if err != nil {
		return 0, classify(err)
	}

	return res.RowsAffected()
}
