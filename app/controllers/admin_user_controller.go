package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/apikey"
)

type AdminUserController struct {
	users repository.UserRepository
}

func NewAdminUserController(users repository.UserRepository) *AdminUserController {
	return &AdminUserController{users: users}
}

// HandleRotateAPIKey issues a new API key for the user and returns it once.
func (auc *AdminUserController) HandleRotateAPIKey(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "invalid user id", nil)
	}

	user, err := auc.users.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, fiber.StatusNotFound, "user not found", nil)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to load user", err)
	}

	key, err := apikey.Generate()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to generate api key", err)
	}
	if err := auc.users.SetAPIKeyHash(user.ID, models.HashAPIKey(key)); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to store api key", err)
	}

	return c.JSON(fiber.Map{"user_id": user.ID, "api_key": key})
}
