package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var validate = validator.New()

// respondError logs the cause and answers {"error": message}.
func respondError(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		log.Errorf("[API] %s %s: %s: %v", c.Method(), c.Path(), message, err)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
