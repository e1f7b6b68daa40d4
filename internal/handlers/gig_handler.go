package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashhalder/gigflow-backend/internal/models"
)

type GigHandler struct {
	DB *gorm.DB
}

func NewGigHandler(db *gorm.DB) *GigHandler {
	return &GigHandler{DB: db}
}

type CreateGigRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      int64    `json:"budget"`
	Attachments []string `json:"attachments"`
}

type GigResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget"`
	Attachments []string  `json:"attachments,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner *UserMini `json:"owner,omitempty"`
}

func toGigResponse(gig *models.Gig) GigResponse {
	resp := GigResponse{
		ID:          gig.ID.String(),
		Title:       gig.Title,
		Description: gig.Description,
		Budget:      gig.Budget,
		Status:      string(gig.Status),
		CreatedAt:   gig.CreatedAt,
		UpdatedAt:   gig.UpdatedAt,
	}

	if len(gig.Attachments) > 0 {
		_ = json.Unmarshal(gig.Attachments, &resp.Attachments)
	}

	if gig.Owner != nil {
		resp.Owner = &UserMini{
			ID:    gig.Owner.ID.String(),
			Name:  gig.Owner.Name,
			Email: gig.Owner.Email,
		}
	}

	return resp
}

// ListOpen returns all open gigs, optionally filtered by a title search.
func (h *GigHandler) ListOpen(c *fiber.Ctx) error {
	q := h.DB.
		Preload("Owner").
		Where("status = ?", models.GigStatusOpen).
		Order("created_at DESC")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("title ILIKE ?", "%"+search+"%")
	}

	var gigs []models.Gig
	if err := q.Find(&gigs).Error; err != nil {
		log.Println("Error fetching gigs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch gigs",
		})
	}

	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, toGigResponse(&gigs[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// Create posts a new gig owned by the caller; it always starts open.
func (h *GigHandler) Create(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req CreateGigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	errs := FieldErrors{}
	if req.Title == "" {
		errs.Add("title", "Title is required")
	}
	if req.Description == "" {
		errs.Add("description", "Description is required")
	}
	if req.Budget <= 0 {
		errs.Add("budget", "Budget must be positive")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	gig := models.Gig{
		OwnerID:     userUUID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      models.GigStatusOpen,
	}

	if len(req.Attachments) > 0 {
		b, err := json.Marshal(req.Attachments)
		if err == nil {
			gig.Attachments = b
		}
	}

	if err := h.DB.Create(&gig).Error; err != nil {
		log.Println("Error creating gig:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create gig",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toGigResponse(&gig),
	})
}

// ListMine returns the caller's own gigs, newest first.
func (h *GigHandler) ListMine(c *fiber.Ctx) error {
	userUUID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var gigs []models.Gig
	if err := h.DB.
		Where("owner_id = ?", userUUID).
		Order("created_at DESC").
		Find(&gigs).Error; err != nil {
		log.Println("Error fetching own gigs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch gigs",
		})
	}

	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, toGigResponse(&gigs[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// GetDetail returns a single gig with its owner.
func (h *GigHandler) GetDetail(c *fiber.Ctx) error {
	gigUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	var gig models.Gig
	if err := h.DB.Preload("Owner").First(&gig, "id = ?", gigUUID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Gig not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toGigResponse(&gig),
	})
}
