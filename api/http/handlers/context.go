package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/haoyun/jobflow/pkg/tracker"
)

// ownerFromCtx resolves the authenticated owner identity the JWT middleware
// stored in request locals.
func ownerFromCtx(c *fiber.Ctx) (tracker.Owner, error) {
	userIDStr, _ := c.Locals("userId").(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return tracker.Owner{}, err
	}
	email, _ := c.Locals("userEmail").(string)
	return tracker.Owner{ID: uid, Email: email}, nil
}
