package billing

import (
	"context"
	"errors"

	"github.com/ManuelReschke/LinkFox/app/models"
)

type fakeRepo struct {
	accounts map[uint]*models.BillingAccount
	upserts  int
	getErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[uint]*models.BillingAccount{}}
}

func (r *fakeRepo) GetBillingAccountByUser(userID uint, provider string) (*models.BillingAccount, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.accounts[userID]
	if !ok || a.Provider != provider {
		return nil, nil
	}
	return a, nil
}

func (r *fakeRepo) UpsertBillingAccount(account *models.BillingAccount) error {
	r.upserts++
	r.accounts[account.UserID] = account
	return nil
}

type fakeAPI struct {
	customers      map[string]Customer
	created        int
	sessions       []string
	findOrCreateFn func(email string) (Customer, error)
}

func (f *fakeAPI) ListCustomers(ctx context.Context, pageSize int, fn func(Customer) error) error {
	return errors.New("not used")
}

func (f *fakeAPI) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return errors.New("not used")
}

func (f *fakeAPI) FindOrCreateCustomer(ctx context.Context, email, name string) (Customer, error) {
	if f.findOrCreateFn != nil {
		return f.findOrCreateFn(email)
	}
	if c, ok := f.customers[email]; ok {
		return c, nil
	}
	f.created++
	c := Customer{ID: "cus_new", Email: email, Name: name}
	if f.customers == nil {
		f.customers = map[string]Customer{}
	}
	f.customers[email] = c
	return c, nil
}

func (f *fakeAPI) CreateSetupSession(ctx context.Context, customerID, successURL, cancelURL string) (SetupSession, error) {
	f.sessions = append(f.sessions, customerID)
	return SetupSession{ID: "cs_test_1", URL: "https://checkout.example/" + customerID, CustomerID: customerID}, nil
}
