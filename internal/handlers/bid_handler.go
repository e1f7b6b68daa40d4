package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashhalder/gigflow-backend/internal/models"
	"github.com/akashhalder/gigflow-backend/internal/services/hiring"
)

// HireService is the slice of the hiring service the handler calls.
type HireService interface {
	Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*models.Bid, error)
}

type BidHandler struct {
	DB     *gorm.DB
	Hiring HireService
}

func NewBidHandler(db *gorm.DB, svc HireService) *BidHandler {
	return &BidHandler{DB: db, Hiring: svc}
}

type CreateBidRequest struct {
	GigID   string `json:"gig_id"`
	Message string `json:"message"`
	Price   int64  `json:"price"`
}

type BidResponse struct {
	ID        string    `json:"id"`
	GigID     string    `json:"gig_id"`
	Message   string    `json:"message"`
	Price     int64     `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Freelancer *UserMini    `json:"freelancer,omitempty"`
	Gig        *GigResponse `json:"gig,omitempty"`
}

func toBidResponse(bid *models.Bid) BidResponse {
	resp := BidResponse{
		ID:        bid.ID.String(),
		GigID:     bid.GigID.String(),
		Message:   bid.Message,
		Price:     bid.Price,
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt,
		UpdatedAt: bid.UpdatedAt,
	}

	if bid.Freelancer != nil {
		resp.Freelancer = &UserMini{
			ID:    bid.Freelancer.ID.String(),
			Name:  bid.Freelancer.Name,
			Email: bid.Freelancer.Email,
		}
	}

	if bid.Gig != nil {
		gig := toGigResponse(bid.Gig)
		resp.Gig = &gig
	}

	return resp
}

// Create submits a bid on an open gig. The gig owner cannot bid, and a
// freelancer gets one bid per gig.
func (h *BidHandler) Create(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req CreateBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	req.Message = strings.TrimSpace(req.Message)

	errs := FieldErrors{}
	if req.GigID == "" {
		errs.Add("gig_id", "Gig ID is required")
	}
	if req.Message == "" {
		errs.Add("message", "Message is required")
	}
	if req.Price <= 0 {
		errs.Add("price", "Price must be positive")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	gigUUID, err := uuid.Parse(req.GigID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", gigUUID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.Status != models.GigStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gig is not open for bidding",
		})
	}

	if gig.OwnerID == userUUID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Owner cannot bid on their own gig",
		})
	}

	var existing models.Bid
	if err := h.DB.Where("gig_id = ? AND freelancer_id = ?", gigUUID, userUUID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "You have already placed a bid on this gig",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	bid := models.Bid{
		GigID:        gigUUID,
		FreelancerID: userUUID,
		Message:      req.Message,
		Price:        req.Price,
		Status:       models.BidStatusPending,
	}

	if err := h.DB.Create(&bid).Error; err != nil {
		log.Println("Error creating bid:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create bid",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toBidResponse(&bid),
	})
}

// ListByGig returns all bids on a gig; only the gig owner may look.
func (h *BidHandler) ListByGig(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	gigUUID, err := uuid.Parse(c.Params("gigId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", gigUUID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	if gig.OwnerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to view bids for this gig",
		})
	}

	var bids []models.Bid
	if err := h.DB.
		Preload("Freelancer").
		Where("gig_id = ?", gigUUID).
		Order("created_at ASC").
		Find(&bids).Error; err != nil {
		log.Println("Error fetching bids:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch bids",
		})
	}

	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, toBidResponse(&bids[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// ListMine returns the caller's bids with their gigs.
func (h *BidHandler) ListMine(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var bids []models.Bid
	if err := h.DB.
		Preload("Gig").
		Preload("Gig.Owner").
		Where("freelancer_id = ?", userUUID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		log.Println("Error fetching own bids:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch bids",
		})
	}

	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, toBidResponse(&bids[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// Hire delegates to the hiring service and maps its errors onto HTTP.
func (h *BidHandler) Hire(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	bidUUID, err := uuid.Parse(c.Params("bidId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid bid ID",
		})
	}

	bid, err := h.Hiring.Hire(c.Context(), bidUUID, userUUID)
	switch {
	case err == nil:
	case errors.Is(err, hiring.ErrBidNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Bid not found",
		})
	case errors.Is(err, hiring.ErrGigNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	case errors.Is(err, hiring.ErrNotGigOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to hire for this gig",
		})
	case errors.Is(err, hiring.ErrGigAlreadyAssigned):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gig is already assigned",
		})
	default:
		log.Println("Error hiring freelancer:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to hire freelancer",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Freelancer hired successfully",
		"data":    toBidResponse(bid),
	})
}
