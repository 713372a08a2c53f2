package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/testutil"
	"github.com/ManuelReschke/LinkFox/internal/pkg/usercontext"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestAccountController_HandleGetUserAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	accounts := billing.NewRepository(db)

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, users.Create(user))
	require.NoError(t, accounts.UpsertBillingAccount(&models.BillingAccount{
		UserID: user.ID, Provider: models.BillingProviderStripe, ProviderAccountID: "cus_123", Email: user.Email,
	}))

	app := fiber.New()
	app.Get("/account", func(c *fiber.Ctx) error {
		c.Locals(usercontext.ContextKey, usercontext.UserContext{UserID: user.ID, IsLoggedIn: true})
		return c.Next()
	}, NewAccountController(users, accounts).HandleGetUserAccount)

	status, body := doJSON(t, app, "GET", "/account", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "cus_123", body["stripe_customer_id"])
	assert.Nil(t, body["api_key_last_used_at"])
	assert.Equal(t, false, body["is_admin"])
}
