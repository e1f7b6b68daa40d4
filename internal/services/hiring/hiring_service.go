package hiring

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/akashhalder/gigflow-backend/internal/models"
	"github.com/akashhalder/gigflow-backend/internal/realtime"
)

var (
	ErrBidNotFound        = errors.New("bid not found")
	ErrGigNotFound        = errors.New("gig not found")
	ErrNotGigOwner        = errors.New("not authorized to hire for this gig")
	ErrGigAlreadyAssigned = errors.New("gig is already assigned")
	ErrGigNotAssigned     = errors.New("gig is not assigned")
	ErrBidAlreadyRejected = errors.New("bid has already been rejected")
)

// Notifier delivers the hired event to the winning freelancer. Delivery is
// fire-and-forget; a failed or skipped delivery never fails the hire.
type Notifier interface {
	NotifyHired(recipientID uuid.UUID, ev realtime.HiredEvent)
}

// Service owns the hire transition: it closes bidding on a gig, promotes one
// bid to hired, demotes the pending siblings to rejected and notifies the
// winner. The gig's open -> assigned flip is a conditional write and the
// single serialization point; of any number of concurrent Hire calls on the
// same gig at most one wins it, so the bid writes that follow never race.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Hire promotes the given bid on behalf of requesterID. Preconditions are
// checked in order (bid exists, gig exists, requester owns the gig, gig is
// still open) and nothing is written until all of them pass.
func (s *Service) Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*models.Bid, error) {
	bid, err := s.store.BidByID(ctx, bidID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bid: %w", err)
	}

	gig, err := s.store.GigByID(ctx, bid.GigID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrGigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load gig: %w", err)
	}

	if gig.OwnerID != requesterID {
		log.Printf("Hire denied: user %s is not the owner of gig %s", requesterID, gig.ID)
		return nil, ErrNotGigOwner
	}

	if gig.Status != models.GigStatusOpen {
		return nil, ErrGigAlreadyAssigned
	}

	// The conditional open -> assigned write is the linearization point.
	// Losing it means someone else hired first; nothing has been written
	// yet, so the caller just sees the conflict. Winning it makes this
	// call the sole owner of the transition, and the remaining writes are
	// idempotent, so they must not be reordered ahead of it.
	won, err := s.store.AssignGig(ctx, gig.ID)
	if err != nil {
		return nil, fmt.Errorf("assign gig: %w", err)
	}
	if !won {
		return nil, ErrGigAlreadyAssigned
	}

	if err := s.store.MarkBidHired(ctx, bid.ID); err != nil {
		// Gig is assigned but the bid writes did not land; Resume can
		// re-apply them with the same bid id.
		return nil, fmt.Errorf("mark bid hired: %w", err)
	}

	if err := s.store.RejectPendingBids(ctx, bid.GigID, bid.ID); err != nil {
		return nil, fmt.Errorf("reject sibling bids: %w", err)
	}

	bid.Status = models.BidStatusHired

	if s.notifier != nil {
		s.notifier.NotifyHired(bid.FreelancerID, realtime.HiredEvent{
			GigTitle: gig.Title,
			Message:  "You have been hired for " + gig.Title,
		})
	}

	return bid, nil
}

// Resume re-applies the bid-status writes for a hire whose gig flip landed
// but whose bid writes did not (crash or store failure between the two).
// It is idempotent and sends no notification: the authoritative fact is the
// bid's status, and the push event was only ever best effort.
func (s *Service) Resume(ctx context.Context, bidID uuid.UUID) (*models.Bid, error) {
	bid, err := s.store.BidByID(ctx, bidID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bid: %w", err)
	}

	gig, err := s.store.GigByID(ctx, bid.GigID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrGigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load gig: %w", err)
	}

	if gig.Status != models.GigStatusAssigned {
		return nil, ErrGigNotAssigned
	}

	// A rejected bid can never become the winner; statuses only move
	// forward along pending -> hired|rejected.
	if bid.Status == models.BidStatusRejected {
		return nil, ErrBidAlreadyRejected
	}

	if bid.Status != models.BidStatusHired {
		if err := s.store.MarkBidHired(ctx, bid.ID); err != nil {
			return nil, fmt.Errorf("mark bid hired: %w", err)
		}
		bid.Status = models.BidStatusHired
	}

	if err := s.store.RejectPendingBids(ctx, bid.GigID, bid.ID); err != nil {
		return nil, fmt.Errorf("reject sibling bids: %w", err)
	}

	return bid, nil
}
