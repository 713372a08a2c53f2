package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
)

// Service links local users to billing-provider customers and opens hosted
// billing pages for them.
type Service struct {
	repo       Repository
	api        API
	successURL string
	cancelURL  string
}

// NewService creates a billing service from an injected repository and API.
func NewService(repo Repository, api API, successURL, cancelURL string) *Service {
	return &Service{repo: repo, api: api, successURL: successURL, cancelURL: cancelURL}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, api API, successURL, cancelURL string) *Service {
	return NewService(NewRepository(db), api, successURL, cancelURL)
}

// EnsureCustomer returns the user's Stripe customer, creating and linking one
// on first use.
func (s *Service) EnsureCustomer(ctx context.Context, userID uint, email, name string) (*models.BillingAccount, error) {
	email = strings.TrimSpace(email)
	if userID == 0 || email == "" {
		return nil, errors.New("user_id and email are required")
	}

	existing, err := s.repo.GetBillingAccountByUser(userID, models.BillingProviderStripe)
	if err != nil {
		return nil, fmt.Errorf("load billing account: %w", err)
	}
	if existing != nil && existing.ProviderAccountID != "" {
		return existing, nil
	}

	cust, err := s.api.FindOrCreateCustomer(ctx, email, name)
	if err != nil {
		return nil, err
	}

	account := &models.BillingAccount{
		UserID:            userID,
		Provider:          models.BillingProviderStripe,
		ProviderAccountID: cust.ID,
		Email:             email,
	}
	if err := s.repo.UpsertBillingAccount(account); err != nil {
		return nil, fmt.Errorf("save billing account: %w", err)
	}
	log.Infof("[Billing] Linked user %d to customer %s", userID, cust.ID)
	return account, nil
}

// CreateSetupSession opens a setup-mode checkout page for the user.
func (s *Service) CreateSetupSession(ctx context.Context, userID uint, email, name string) (SetupSession, error) {
	account, err := s.EnsureCustomer(ctx, userID, email, name)
	if err != nil {
		return SetupSession{}, err
	}
	return s.api.CreateSetupSession(ctx, account.ProviderAccountID, s.successURL, s.cancelURL)
}
