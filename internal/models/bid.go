package models

import (
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"  // waiting for the gig owner's decision
	BidStatusHired    BidStatus = "hired"    // the winning bid, terminal
	BidStatusRejected BidStatus = "rejected" // lost to a sibling bid, terminal
)

// Bid is a freelancer's priced proposal on an open gig. A freelancer gets at
// most one bid per gig, enforced by the composite unique index.
type Bid struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GigID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_gig_freelancer" json:"gig_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_gig_freelancer" json:"freelancer_id"`

	Message string `gorm:"not null" json:"message"`
	Price   int64  `gorm:"not null" json:"price"`

	Status BidStatus `gorm:"type:varchar(20);default:pending;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gig        *Gig  `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}
