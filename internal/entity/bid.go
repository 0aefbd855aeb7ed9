package entity

import (
	"github.com/google/uuid"
)

type Bid struct {
	Id           uuid.UUID `json:"id" db:"id"`
	GigId        uuid.UUID `json:"gigId" db:"gig_id"`
	FreelancerId uuid.UUID `json:"freelancerId" db:"freelancer_id"`
	Message      string    `json:"message" db:"message"`
	Price        float64   `json:"price" db:"price"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    string    `json:"createdAt" db:"created_at"`

	// filled only by joined listings
	GigTitle  string  `json:"gigTitle,omitempty" db:"gig_title"`
	GigBudget float64 `json:"gigBudget,omitempty" db:"gig_budget"`
	GigStatus string  `json:"gigStatus,omitempty" db:"gig_status"`
}

// service + repo input model
type CreateBidInput struct {
	GigId        string  // given
	FreelancerId string  // taken from identity
	Message      string  // given
	Price        float64 // given
	// Status is always "pending" on insert
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// controller model
type BidOutputModel struct {
	Id           string  `json:"id"`
	GigId        string  `json:"gigId"`
	FreelancerId string  `json:"freelancerId"`
	Message      string  `json:"message"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	GigTitle     string  `json:"gigTitle,omitempty"`
	GigBudget    float64 `json:"gigBudget,omitempty"`
	GigStatus    string  `json:"gigStatus,omitempty"`
}

type UserBidsOutputModel struct {
	SubmittedBids []BidOutputModel `json:"submittedBids"`
	ReceivedBids  []BidOutputModel `json:"receivedBids"`
}

type HireOutputModel struct {
	Gig GigOutputModel `json:"gig"`
	Bid BidOutputModel `json:"bid"`
}
