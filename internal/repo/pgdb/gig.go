package pgdb

import (
	"context"
	"strings"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	ownerId, err := uuid.Parse(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}

	createGigSql, args, _ := r.SqlBuilder.
		Insert("gig").
		Columns("title", "description", "budget", "status", "owner_id").
		Values(input.Title, input.Description, input.Budget, common.GigOpen, ownerId).
		Suffix("RETURNING id").
		ToSql()

	var gigId uuid.UUID
	if err = r.Database.QueryRowContext(ctx, createGigSql, args...).Scan(&gigId); err != nil {
		return uuid.Nil, classify(err)
	}

	return gigId, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getGigSql, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("gig.id = ?", uuidForm).
		ToSql()

	return scanGig(r.Database.QueryRowContext(ctx, getGigSql, args...))
}

func (r *GigRepo) GetOpenGigs(ctx context.Context, search string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	builder := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("gig.status = ?", common.GigOpen)

	if search != "" {
		builder = builder.Where(squirrel.ILike{"gig.title": "%" + likeEscaper.Replace(search) + "%"})
	}

	sqlReq, args, _ := builder.
		OrderBy("gig.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryGigs(ctx, sqlReq, args)
}

func (r *GigRepo) GetGigsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	uuidForm, err := uuid.Parse(ownerId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("gig.owner_id = ?", uuidForm).
		OrderBy("gig.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryGigs(ctx, sqlReq, args)
}

func (r *GigRepo) queryGigs(ctx context.Context, sqlReq string, args []any) ([]entity.Gig, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return gigs, err
		}
		gigs = append(gigs, *gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, classify(err)
	}

	return gigs, nil
}
