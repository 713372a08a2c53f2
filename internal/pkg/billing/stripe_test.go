package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

type sliceCustomerIter struct {
	items []*stripe.Customer
	pos   int
	err   error
}

func (it *sliceCustomerIter) Next() bool {
	if it.pos >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceCustomerIter) Customer() *stripe.Customer { return it.items[it.pos-1] }
func (it *sliceCustomerIter) Err() error                 { return it.err }

type sliceSubscriptionIter struct {
	items []*stripe.Subscription
	pos   int
	err   error
}

func (it *sliceSubscriptionIter) Next() bool {
	if it.pos >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceSubscriptionIter) Subscription() *stripe.Subscription { return it.items[it.pos-1] }
func (it *sliceSubscriptionIter) Err() error                         { return it.err }

func TestStripeClient_ListCustomersPageSize(t *testing.T) {
	var gotLimit int64
	c := &StripeClient{listCustomers: func(p *stripe.CustomerListParams) customerIter {
		gotLimit = *p.Limit
		return &sliceCustomerIter{items: []*stripe.Customer{{ID: "cus_1"}, {ID: "cus_2"}}}
	}}

	var seen []string
	err := c.ListCustomers(context.Background(), 500, func(cu Customer) error {
		seen = append(seen, cu.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), gotLimit)
	assert.Equal(t, []string{"cus_1", "cus_2"}, seen)
}

func TestStripeClient_ListCustomersIterError(t *testing.T) {
	c := &StripeClient{listCustomers: func(p *stripe.CustomerListParams) customerIter {
		return &sliceCustomerIter{err: errors.New("rate limited")}
	}}
	err := c.ListCustomers(context.Background(), 10, func(Customer) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestStripeClient_ListSubscriptionsAllStatuses(t *testing.T) {
	var params *stripe.SubscriptionListParams
	c := &StripeClient{listSubscriptions: func(p *stripe.SubscriptionListParams) subscriptionIter {
		params = p
		return &sliceSubscriptionIter{items: []*stripe.Subscription{
			{ID: "sub_a", Status: stripe.SubscriptionStatusActive, Created: 300},
			{ID: "sub_b", Status: stripe.SubscriptionStatusCanceled, Created: 100, Customer: &stripe.Customer{ID: "cus_x"}},
		}}
	}}

	subs, err := c.ListSubscriptions(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "all", *params.Status)
	assert.Equal(t, "cus_1", *params.Customer)
	require.Len(t, subs, 2)
	assert.Equal(t, "active", subs[0].Status)
	assert.Equal(t, "cus_1", subs[0].CustomerID)
	assert.Equal(t, int64(300), subs[0].CreatedAt.Unix())
	assert.Equal(t, "cus_x", subs[1].CustomerID)
}

func TestStripeClient_FindOrCreateCustomer(t *testing.T) {
	created := 0
	c := &StripeClient{
		listCustomers: func(p *stripe.CustomerListParams) customerIter {
			if *p.Email == "known@example.com" {
				return &sliceCustomerIter{items: []*stripe.Customer{{ID: "cus_known", Email: "known@example.com"}}}
			}
			return &sliceCustomerIter{}
		},
		newCustomer: func(p *stripe.CustomerParams) (*stripe.Customer, error) {
			created++
			return &stripe.Customer{ID: "cus_created", Email: *p.Email}, nil
		},
	}

	cu, err := c.FindOrCreateCustomer(context.Background(), "known@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "cus_known", cu.ID)

	cu, err = c.FindOrCreateCustomer(context.Background(), "new@example.com", "New")
	require.NoError(t, err)
	assert.Equal(t, "cus_created", cu.ID)
	assert.Equal(t, 1, created)
}

func TestStripeClient_CreateSetupSession(t *testing.T) {
	c := &StripeClient{newSession: func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		assert.Equal(t, string(stripe.CheckoutSessionModeSetup), *p.Mode)
		assert.Equal(t, "cus_1", *p.Customer)
		return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil
	}}

	sess, err := c.CreateSetupSession(context.Background(), "cus_1", "https://ok", "https://cancel")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", sess.ID)
	assert.Equal(t, "cus_1", sess.CustomerID)
}
