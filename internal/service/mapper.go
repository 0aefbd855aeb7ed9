package service

import (
	"freelance-marketplace-api/internal/entity"
)

func mapGig(g *entity.Gig) *entity.GigOutputModel {
	return &entity.GigOutputModel{
		Id:          g.Id.String(),
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		Status:      g.Status,
		OwnerId:     g.OwnerId.String(),
		CreatedAt:   g.CreatedAt,
	}
}

func mapGigs(g []entity.Gig) []entity.GigOutputModel {
	s := make([]entity.GigOutputModel, 0, len(g))
	for i := range g {
		s = append(s, *mapGig(&g[i]))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:           b.Id.String(),
		GigId:        b.GigId.String(),
		FreelancerId: b.FreelancerId.String(),
		Message:      b.Message,
		Price:        b.Price,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		GigTitle:     b.GigTitle,
		GigBudget:    b.GigBudget,
		GigStatus:    b.GigStatus,
	}
}

func mapBids(b []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0, len(b))
	for i := range b {
		s = append(s, *mapBid(&b[i]))
	}

	return s
}
