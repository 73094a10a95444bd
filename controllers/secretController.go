package controllers

import (
	"secretshare-backend/middlewares"
	"secretshare-backend/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSecret accepts a client-encrypted envelope plus its consumption
// policy. Works anonymously; a valid bearer token attributes ownership.
func CreateSecret(c *fiber.Ctx) error {
	var in models.CreateSecretInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	secret, err := secrets.Create(c.UserContext(), optionalUserID(c), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(secret)
}

// GetSecret is the consuming read: it advances the view counter and may be
// the last read the token ever serves.
func GetSecret(c *fiber.Ctx) error {
	secret, err := secrets.Retrieve(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(secret)
}

// DeleteSecret hard-deletes by token, owner-authorized.
func DeleteSecret(c *fiber.Ctx) error {
	if err := secrets.Delete(c.UserContext(), c.Params("token"), optionalUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSecrets returns the authenticated caller's secrets, newest first.
// Listing does not consume views.
func ListSecrets(c *fiber.Ctx) error {
	list, err := secrets.ListByCreator(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}
