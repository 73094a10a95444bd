package controllers

import (
	"strings"

	"secretshare-backend/database"
	"secretshare-backend/middlewares"
	"secretshare-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Register(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if data["password"] != data["password_confirm"] {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}
	if len(data["password"]) < 8 {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "password must be at least 8 characters",
		})
	}

	email := strings.ToLower(strings.TrimSpace(data["email"]))
	if email == "" || !strings.Contains(email, "@") {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "invalid email address",
		})
	}

	user := models.User{
		Name:  strings.TrimSpace(data["name"]),
		Email: email,
	}
	user.SetPassword(data["password"])

	if err := database.DB.Create(&user).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.Status(fiber.StatusConflict)
			return c.JSON(fiber.Map{
				"message": "email already registered",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func Login(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(data["email"]))
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.Status(fiber.StatusUnauthorized)
		return c.JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	if err := user.ComparePassword(data["password"]); err != nil {
		c.Status(fiber.StatusUnauthorized)
		return c.JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(user.Id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout is stateless with bearer tokens; the client discards its token.
// Kept as an endpoint so clients have a uniform auth surface.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.Where("id = ?", userID(c)).First(&user).Error; err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"message": "user not found",
		})
	}
	return c.JSON(user)
}
