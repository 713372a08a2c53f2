package controllers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/usercontext"
)

// SetupSessionCreator starts a payment-method setup for a user.
type SetupSessionCreator interface {
	CreateSetupSession(ctx context.Context, userID uint, email, name string) (billing.SetupSession, error)
}

type BillingController struct {
	sessions SetupSessionCreator
}

func NewBillingController(sessions SetupSessionCreator) *BillingController {
	return &BillingController{sessions: sessions}
}

type setupSessionRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=150"`
}

// HandleCreateSetupSession links the caller to a Stripe customer and returns
// a hosted checkout session in setup mode. The body is validated before any
// Stripe call.
func (bc *BillingController) HandleCreateSetupSession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", nil)
	}

	var req setupSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fiber.StatusBadRequest, "invalid request body", nil)
		}
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" {
		return respondError(c, fiber.StatusBadRequest, "email is required", nil)
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid email or name", nil)
	}

	session, err := bc.sessions.CreateSetupSession(c.UserContext(), userCtx.UserID, req.Email, req.Name)
	if err != nil {
		return respondError(c, fiber.StatusBadGateway, "failed to create setup session", err)
	}

	return c.JSON(fiber.Map{
		"url":         session.URL,
		"session_id":  session.ID,
		"customer_id": session.CustomerID,
	})
}
