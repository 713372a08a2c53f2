package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/usercontext"
)

// BillingAccounts looks up a user's link to a billing provider.
type BillingAccounts interface {
	GetBillingAccountByUser(userID uint, provider string) (*models.BillingAccount, error)
}

type AccountController struct {
	users    repository.UserRepository
	accounts BillingAccounts
}

func NewAccountController(users repository.UserRepository, accounts BillingAccounts) *AccountController {
	return &AccountController{users: users, accounts: accounts}
}

// HandleGetUserAccount returns account information for the API key user.
func (ac *AccountController) HandleGetUserAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", nil)
	}

	account, err := ac.users.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "user not found", nil)
		}
		return respondError(c, fiber.StatusInternalServerError, "failed to load user", err)
	}

	var customerID interface{}
	if ac.accounts != nil {
		ba, err := ac.accounts.GetBillingAccountByUser(account.ID, models.BillingProviderStripe)
		if err != nil {
			return respondError(c, fiber.StatusInternalServerError, "failed to load billing account", err)
		}
		if ba != nil {
			customerID = ba.ProviderAccountID
		}
	}

	return c.JSON(fiber.Map{
		"id":                   account.ID,
		"name":                 account.Name,
		"email":                account.Email,
		"status":               account.Status,
		"is_admin":             account.Role == models.ROLE_ADMIN,
		"created_at":           account.CreatedAt.UTC().Format(time.RFC3339),
		"api_key_last_used_at": formatTimePtr(account.APIKeyLastUsedAt),
		"stripe_customer_id":   customerID,
	})
}
