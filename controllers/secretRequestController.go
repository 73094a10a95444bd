package controllers

import (
	"secretshare-backend/middlewares"
	"secretshare-backend/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSecretRequest publishes an encrypted prompt; requester-only.
func CreateSecretRequest(c *fiber.Ctx) error {
	var in models.CreateSecretRequestInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	request, err := requests.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetSecretRequestForClient serves the prompt to the respondent while the
// request is still pending. The answer is never exposed on this route.
func GetSecretRequestForClient(c *fiber.Ctx) error {
	request, err := requests.GetForClient(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(request)
}

// SubmitSecretRequest stores the respondent's encrypted answer; at most one
// submission per token ever succeeds.
func SubmitSecretRequest(c *fiber.Ctx) error {
	var in models.SubmitSecretInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	request, err := requests.Submit(c.UserContext(), c.Params("token"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":       request.Status,
		"completed_at": request.CompletedAt,
	})
}

// GetSecretRequest returns the full record, answer included, to its owner.
func GetSecretRequest(c *fiber.Ctx) error {
	request, err := requests.GetForRequester(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(request)
}

// ListSecretRequests returns the caller's requests, newest first.
func ListSecretRequests(c *fiber.Ctx) error {
	list, err := requests.ListForRequester(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// DeleteSecretRequest removes a request regardless of status, owner only.
func DeleteSecretRequest(c *fiber.Ctx) error {
	if err := requests.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
