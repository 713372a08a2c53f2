package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/internal/pkg/usercontext"
)

// HasServiceRole reports whether the request's bearer token equals the
// service-role key. An empty key matches nothing.
func HasServiceRole(c *fiber.Ctx, serviceKey string) bool {
	token := bearerToken(c)
	return serviceKey != "" && token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(serviceKey)) == 1
}

// RequireServiceRole admits requests whose bearer token equals the
// service-role key. Background triggers and the worker transport use it.
func RequireServiceRole(serviceKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasServiceRole(c, serviceKey) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "service role key required",
			})
		}
		c.Locals(usercontext.KeyServiceRole, true)
		return c.Next()
	}
}
