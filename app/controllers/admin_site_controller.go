package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
)

// Sealer encrypts a secret for storage.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// AdminSiteController stores the REST API credentials of partner sites.
type AdminSiteController struct {
	creds repository.SiteCredentialRepository
	box   Sealer
}

func NewAdminSiteController(creds repository.SiteCredentialRepository, box Sealer) *AdminSiteController {
	return &AdminSiteController{creds: creds, box: box}
}

type siteCredentialRequest struct {
	APIURL   string `json:"api_url" validate:"required,url"`
	Username string `json:"username" validate:"required,max=191"`
	Password string `json:"password" validate:"required"`
}

// HandleUpsertCredentials creates or replaces a domain's credentials. The
// application password is sealed before it is stored and never returned.
func (asc *AdminSiteController) HandleUpsertCredentials(c *fiber.Ctx) error {
	domain := strings.ToLower(strings.TrimSpace(c.Params("domain")))
	if domain == "" {
		return respondError(c, fiber.StatusBadRequest, "domain is required", nil)
	}

	var req siteCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "api_url, username and password are required", nil)
	}

	sealed, err := asc.box.Seal(req.Password)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to seal password", err)
	}
	cred := &models.SiteCredential{
		Domain:      domain,
		APIURL:      strings.TrimSpace(req.APIURL),
		Username:    strings.TrimSpace(req.Username),
		PasswordEnc: sealed,
	}
	if err := asc.creds.Upsert(cred); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to store credentials", err)
	}

	return c.JSON(fiber.Map{"domain": cred.Domain, "api_url": cred.APIURL, "username": cred.Username})
}
