package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserMini is the embedded user shape returned alongside gigs and bids.
type UserMini struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// currentUserUUID reads the authenticated user id that AttachJWTLocals
// stored on the request.
func currentUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals("userId")
	if raw == nil {
		return uuid.Nil, errors.New("missing user id")
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("invalid user id format")
	}
	return uuid.Parse(s)
}
