package pgdb

import (
	"time"

	"freelance-marketplace-api/internal/entity"
)

const (
	gigColumns = "gig.id, gig.title, gig.description, gig.budget, gig.status, gig.owner_id, gig.created_at"
	bidColumns = "bid.id, bid.gig_id, bid.freelancer_id, bid.message, bid.price, bid.status, bid.created_at"

	gigReturning = "RETURNING id, title, description, budget, status, owner_id, created_at"
	bidReturning = "RETURNING id, gig_id, freelancer_id, message, price, status, created_at"

	joinedBidColumns = bidColumns + ", gig.title, gig.budget, gig.status"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGig(row rowScanner) (*entity.Gig, error) {
	var gig entity.Gig
	var createdAt time.Time
	if err := row.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget, &gig.Status,
		&gig.OwnerId, &createdAt); err != nil {
		return nil, classify(err)
	}
	gig.CreatedAt = createdAt.Format(time.RFC3339)

	return &gig, nil
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt time.Time
	if err := row.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price,
		&bid.Status, &createdAt); err != nil {
		return nil, classify(err)
	}
	bid.CreatedAt = createdAt.Format(time.RFC3339)

	return &bid, nil
}

func scanJoinedBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt time.Time
	if err := row.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price,
		&bid.Status, &createdAt, &bid.GigTitle, &bid.GigBudget, &bid.GigStatus); err != nil {
		return nil, classify(err)
	}
	bid.CreatedAt = createdAt.Format(time.RFC3339)

	return &bid, nil
}
