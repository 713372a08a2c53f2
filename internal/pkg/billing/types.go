package billing

import (
	"context"
	"time"
)

// Subscription statuses the billing provider reports. Anything that is not
// active or trialing counts as inactive for deduplication.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
)

// Customer is the provider-side identity of a paying client.
type Customer struct {
	ID    string
	Email string
	Name  string
}

// Subscription is the provider-agnostic view of a provider subscription.
type Subscription struct {
	ID         string
	CustomerID string
	Status     string
	CreatedAt  time.Time
}

// SetupSession is a hosted page where a customer stores a payment method.
type SetupSession struct {
	ID         string
	URL        string
	CustomerID string
}

// API is the subset of the billing provider this service talks to.
type API interface {
	// ListCustomers calls fn for every customer, fetching pageSize customers
	// per request. An error from fn stops the iteration and is returned.
	ListCustomers(ctx context.Context, pageSize int, fn func(Customer) error) error
	// ListSubscriptions returns every subscription of the customer regardless
	// of status.
	ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	FindOrCreateCustomer(ctx context.Context, email, name string) (Customer, error)
	CreateSetupSession(ctx context.Context, customerID, successURL, cancelURL string) (SetupSession, error)
}

// IsLiveStatus reports whether a subscription in this status still bills.
func IsLiveStatus(status string) bool {
	return status == StatusActive || status == StatusTrialing
}
