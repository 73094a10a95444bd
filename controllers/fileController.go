package controllers

import (
	"secretshare-backend/middlewares"
	"secretshare-backend/models"

	"github.com/gofiber/fiber/v2"
)

// UploadFile creates a file-backed secret: the envelope goes to object
// storage, the policy record to the database.
func UploadFile(c *fiber.Ctx) error {
	if files == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "file storage not configured")
	}

	var in models.UploadFileInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	secret, err := files.Upload(c.UserContext(), optionalUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(secret)
}

// DownloadFile streams the blob through the same consuming lifecycle as an
// inline secret read.
func DownloadFile(c *fiber.Ctx) error {
	if files == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "file storage not configured")
	}

	data, contentType, err := files.Download(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// DeleteFile hard-deletes a file-backed secret and sweeps its blob.
func DeleteFile(c *fiber.Ctx) error {
	if files == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "file storage not configured")
	}

	if err := files.Delete(c.UserContext(), c.Params("token"), optionalUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
