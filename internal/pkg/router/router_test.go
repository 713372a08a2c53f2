package router

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LinkFox/app/controllers"
	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/secrets"
	"github.com/ManuelReschke/LinkFox/internal/pkg/testutil"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workqueue"
)

const serviceKey = "service-role-key-for-tests"

type nothingRunner struct{}

func (nothingRunner) Run(ctx context.Context, name string) (workqueue.Result, error) {
	return workqueue.Result{NothingToDo: true}, nil
}

type noQueues struct{}

func (noQueues) StatusCounts(ctx context.Context) (map[string]map[string]int64, error) {
	return map[string]map[string]int64{}, nil
}

func (noQueues) Requeue(ctx context.Context, name string, ids []uint) (int64, error) {
	return 0, nil
}

type fakeSessions struct{}

func (fakeSessions) CreateSetupSession(ctx context.Context, userID uint, email, name string) (billing.SetupSession, error) {
	return billing.SetupSession{ID: "cs_1", URL: "https://checkout.example/cs_1", CustomerID: "cus_1"}, nil
}

func newTestApp(t *testing.T, withBilling bool, metricsUsers map[string]string) *fiber.App {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(&models.User{Name: "Ana", Email: "ana@example.com", APIKeyHash: models.HashAPIKey("lf_ana")}))
	box, err := secrets.NewBox(strings.Repeat("ab", 32))
	require.NoError(t, err)

	deps := Dependencies{
		ServiceRoleKey: serviceKey,
		Users:          users,
		MetricsUsers:   metricsUsers,
		Jobs:           controllers.NewJobsController(nothingRunner{}),
		Functions:      controllers.NewFunctionsController(workers.NewRegistry()),
		Account:        controllers.NewAccountController(users, billing.NewRepository(db)),
		AdminQueues:    controllers.NewAdminQueueController(noQueues{}, nil),
		AdminUsers:     controllers.NewAdminUserController(users),
		AdminSites:     controllers.NewAdminSiteController(repository.NewSiteCredentialRepository(db), box),
	}
	if withBilling {
		deps.Billing = controllers.NewBillingController(fakeSessions{})
	}
	app := fiber.New()
	InstallRouter(app, deps)
	return app
}

func status(t *testing.T, app *fiber.App, method, path string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestServiceRoutesRequireServiceKey(t *testing.T) {
	app := newTestApp(t, false, nil)
	auth := map[string]string{"Authorization": "Bearer " + serviceKey}

	for _, path := range []string{"/api/v1/jobs/enrichment/run", "/api/v1/jobs/backlink-review/run"} {
		assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", path, nil), path)
		assert.Equal(t, fiber.StatusOK, status(t, app, "POST", path, auth), path)
	}
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/v1/admin/queues", auth))
	assert.Equal(t, fiber.StatusNotFound, status(t, app, "POST", "/api/v1/functions/unknown", auth))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", "/api/v1/admin/users/1/api-key", nil))
	assert.Equal(t, fiber.StatusOK, status(t, app, "POST", "/api/v1/admin/users/1/api-key", auth))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "PUT", "/api/v1/admin/sites/blog.example/credentials", nil))

	// A user API key is not a service-role key.
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", "/api/v1/jobs/enrichment/run",
		map[string]string{"Authorization": "Bearer lf_ana"}))
}

func TestUserRoutesRequireAPIKey(t *testing.T) {
	app := newTestApp(t, true, nil)

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/v1/account", nil))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/v1/account", map[string]string{"X-API-Key": "lf_ana"}))
	assert.Equal(t, fiber.StatusBadRequest, status(t, app, "POST", "/api/v1/billing/setup-session", map[string]string{"X-API-Key": "lf_ana"}))
}

func TestBillingRouteAbsentWithoutStripe(t *testing.T) {
	app := newTestApp(t, false, nil)
	assert.Equal(t, fiber.StatusNotFound, status(t, app, "POST", "/api/v1/billing/setup-session", map[string]string{"X-API-Key": "lf_ana"}))
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t, false, map[string]string{"metrics": "secret"})
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/metrics", nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.SetBasicAuth("metrics", "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	disabled := newTestApp(t, false, nil)
	assert.Equal(t, fiber.StatusNotFound, status(t, disabled, "GET", "/metrics", nil))
}

func TestServiceRoleSkipsRateLimit(t *testing.T) {
	app := newTestApp(t, false, nil)
	auth := map[string]string{"Authorization": "Bearer " + serviceKey}

	limited := 0
	for i := 0; i < 125; i++ {
		if status(t, app, "POST", "/api/v1/functions/enrich-wordpress-post", auth) == fiber.StatusTooManyRequests {
			limited++
		}
	}
	assert.Zero(t, limited)
}

func TestAnonymousTrafficIsRateLimited(t *testing.T) {
	app := newTestApp(t, false, nil)

	for i := 0; i < 120; i++ {
		require.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/", nil))
	}
	assert.Equal(t, fiber.StatusTooManyRequests, status(t, app, "GET", "/api/", nil))
	// A wrong service key is still counted against the limit.
	assert.Equal(t, fiber.StatusTooManyRequests, status(t, app, "POST", "/api/v1/functions/enrich-wordpress-post",
		map[string]string{"Authorization": "Bearer not-the-key"}))
}
