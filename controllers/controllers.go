package controllers

import (
	"secretshare-backend/services"

	"github.com/gofiber/fiber/v2"
)

var (
	secrets  *services.SecretService
	requests *services.SecretRequestService
	files    *services.FileService
)

// Init wires the shared service instances. Called once from main before any
// route is served.
func Init(s *services.SecretService, r *services.SecretRequestService, f *services.FileService) {
	secrets = s
	requests = r
	files = f
}

// optionalUserID returns the authenticated user id, or nil for anonymous
// callers on OptionalAuth routes.
func optionalUserID(c *fiber.Ctx) *string {
	if id, ok := c.Locals("userID").(string); ok && id != "" {
		return &id
	}
	return nil
}

// userID returns the authenticated user id; routes behind
// IsAuthenticatedHeader always have one.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
