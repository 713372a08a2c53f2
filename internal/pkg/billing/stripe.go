package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
)

const maxStripePageSize = 100

// StripeClient implements API on top of stripe-go's package-level client.
type StripeClient struct {
	listCustomers      func(params *stripe.CustomerListParams) customerIter
	listSubscriptions  func(params *stripe.SubscriptionListParams) subscriptionIter
	cancelSubscription func(id string, params *stripe.SubscriptionCancelParams) (*stripe.Subscription, error)
	newCustomer        func(params *stripe.CustomerParams) (*stripe.Customer, error)
	newSession         func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type customerIter interface {
	Next() bool
	Customer() *stripe.Customer
	Err() error
}

type subscriptionIter interface {
	Next() bool
	Subscription() *stripe.Subscription
	Err() error
}

// NewStripeClient sets the process-wide Stripe key and returns a client.
func NewStripeClient(secretKey string) *StripeClient {
	stripe.Key = strings.TrimSpace(secretKey)
	return &StripeClient{
		listCustomers: func(params *stripe.CustomerListParams) customerIter {
			return customer.List(params)
		},
		listSubscriptions: func(params *stripe.SubscriptionListParams) subscriptionIter {
			return subscription.List(params)
		},
		cancelSubscription: subscription.Cancel,
		newCustomer:        customer.New,
		newSession:         stripesession.New,
	}
}

func (c *StripeClient) ListCustomers(ctx context.Context, pageSize int, fn func(Customer) error) error {
	if pageSize <= 0 || pageSize > maxStripePageSize {
		pageSize = maxStripePageSize
	}
	params := &stripe.CustomerListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(pageSize))

	it := c.listCustomers(params)
	for it.Next() {
		if err := fn(toCustomer(it.Customer())); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	return nil
}

func (c *StripeClient) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(maxStripePageSize)

	var subs []Subscription
	it := c.listSubscriptions(params)
	for it.Next() {
		subs = append(subs, toSubscription(it.Subscription(), customerID))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions for %s: %w", customerID, err)
	}
	return subs, nil
}

func (c *StripeClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	_, err := c.cancelSubscription(subscriptionID, params)
	return err
}

// FindOrCreateCustomer returns the first customer with the given email, or
// creates one.
func (c *StripeClient) FindOrCreateCustomer(ctx context.Context, email, name string) (Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Customer{}, errors.New("email is required")
	}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	it := c.listCustomers(params)
	if it.Next() {
		return toCustomer(it.Customer()), nil
	}
	if err := it.Err(); err != nil {
		return Customer{}, fmt.Errorf("look up customer: %w", err)
	}

	create := &stripe.CustomerParams{Email: stripe.String(email)}
	create.Context = ctx
	if n := strings.TrimSpace(name); n != "" {
		create.Name = stripe.String(n)
	}
	cust, err := c.newCustomer(create)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return toCustomer(cust), nil
}

func (c *StripeClient) CreateSetupSession(ctx context.Context, customerID, successURL, cancelURL string) (SetupSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSetup)),
		Customer:           stripe.String(customerID),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.Context = ctx
	sess, err := c.newSession(params)
	if err != nil {
		return SetupSession{}, fmt.Errorf("create setup session: %w", err)
	}
	return SetupSession{ID: sess.ID, URL: sess.URL, CustomerID: customerID}, nil
}

func toCustomer(c *stripe.Customer) Customer {
	if c == nil {
		return Customer{}
	}
	return Customer{ID: c.ID, Email: c.Email, Name: c.Name}
}

func toSubscription(s *stripe.Subscription, customerID string) Subscription {
	out := Subscription{
		ID:         s.ID,
		CustomerID: customerID,
		Status:     string(s.Status),
		CreatedAt:  time.Unix(s.Created, 0).UTC(),
	}
	if s.Customer != nil && s.Customer.ID != "" {
		out.CustomerID = s.Customer.ID
	}
	return out
}
