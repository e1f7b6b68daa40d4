package hiring

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashhalder/gigflow-backend/internal/models"
)

// ErrNotFound is returned by Store lookups for a missing record, as opposed
// to an infrastructure failure.
var ErrNotFound = errors.New("record not found")

// Store is the slice of the entity store the hire transition needs:
// read-by-id, the conditional gig-status write, and the two idempotent bid
// writes. Anything that can do a per-record conditional update can back it.
type Store interface {
	BidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)

	// AssignGig flips the gig from open to assigned only if it is still
	// open at write time. Returns false when the update matched no row,
	// meaning another caller won the race.
	AssignGig(ctx context.Context, gigID uuid.UUID) (bool, error)

	MarkBidHired(ctx context.Context, bidID uuid.UUID) error

	// RejectPendingBids moves every pending bid under the gig except the
	// winner to rejected. Bids already rejected are untouched.
	RejectPendingBids(ctx context.Context, gigID, exceptBidID uuid.UUID) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) BidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	if err := s.db.WithContext(ctx).First(&bid, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (s *gormStore) GigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.WithContext(ctx).First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (s *gormStore) AssignGig(ctx context.Context, gigID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Gig{}).
		Where("id = ? AND status = ?", gigID, models.GigStatusOpen).
		Update("status", models.GigStatusAssigned)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) MarkBidHired(ctx context.Context, bidID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ?", bidID).
		Update("status", models.BidStatusHired).Error
}

func (s *gormStore) RejectPendingBids(ctx context.Context, gigID, exceptBidID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Bid{}).
		Where("gig_id = ? AND id <> ? AND status = ?", gigID, exceptBidID, models.BidStatusPending).
		Update("status", models.BidStatusRejected).Error
}
