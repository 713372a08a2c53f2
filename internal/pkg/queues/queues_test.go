package queues

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/credentials"
	"github.com/ManuelReschke/LinkFox/internal/pkg/functions"
	"github.com/ManuelReschke/LinkFox/internal/pkg/testutil"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
)

type call struct {
	name    string
	payload map[string]interface{}
}

type recordingInvoker struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingInvoker) Invoke(ctx context.Context, name string, payload map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{name: name, payload: payload})
	return nil
}

type fakeResolver map[string]credentials.Credentials

func (f fakeResolver) Resolve(domain string) (credentials.Credentials, error) {
	c, ok := f[domain]
	if !ok {
		return credentials.Credentials{}, fmt.Errorf("%w for %s", credentials.ErrCredentialsNotFound, domain)
	}
	return c, nil
}

func testConfig() config.QueueConfig {
	return config.QueueConfig{
		EnrichmentBatchSize:     100,
		BacklinkReviewBatchSize: 25,
		ClaimMode:               config.ClaimModeSelectUpdate,
		DispatchConcurrency:     4,
		Transport:               config.TransportQueue,
	}
}

func seedPosts(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.WordPressPost{Domain: "blog.example", WPPostID: uint64(i + 1), Status: models.WorkStatusPending}).Error)
	}
}

func TestEnrichmentRun_ClaimsOneBatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedPosts(t, db, 120)
	inv := &recordingInvoker{}
	set := NewSet(db, inv, fakeResolver{}, testConfig())

	res, err := set.Run(context.Background(), Enrichment)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Claimed)
	assert.Equal(t, 100, res.Dispatched)
	assert.Len(t, inv.calls, 100)
	assert.Equal(t, workers.EnrichWordPressPost, inv.calls[0].name)

	counts, err := set.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), counts[Enrichment][models.WorkStatusProcessing])
	assert.Equal(t, int64(20), counts[Enrichment][models.WorkStatusPending])
}

func TestBacklinkReviewRun_RejectsRowsWithoutCredentials(t *testing.T) {
	db := testutil.NewTestDB(t)
	ok := models.Backlink{UserID: 1, Domain: "good.example", WPPostID: 10, TargetURL: "https://linkfox.example", ReviewStatus: models.WorkStatusPending}
	bad := models.Backlink{UserID: 1, Domain: "bad.example", WPPostID: 11, TargetURL: "https://linkfox.example", ReviewStatus: models.WorkStatusPending}
	require.NoError(t, db.Create(&ok).Error)
	require.NoError(t, db.Create(&bad).Error)

	inv := &recordingInvoker{}
	resolver := fakeResolver{"good.example": {Domain: "good.example", APIURL: "https://good.example", Username: "editor", Password: "secret"}}
	set := NewSet(db, inv, resolver, testConfig())

	res, err := set.Run(context.Background(), BacklinkReview)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Claimed)
	assert.Equal(t, 1, res.Dispatched)
	assert.Equal(t, 1, res.Rejected)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, workers.ReviewBacklink, inv.calls[0].name)
	assert.Equal(t, "https://good.example", inv.calls[0].payload["api_url"])
	assert.Equal(t, "editor", inv.calls[0].payload["username"])
	assert.NotContains(t, inv.calls[0].payload, "password")

	var stored models.Backlink
	require.NoError(t, db.First(&stored, bad.ID).Error)
	assert.Equal(t, models.WorkStatusErrorCredentials, stored.ReviewStatus)
	assert.Contains(t, stored.ReviewMessage, "bad.example")
}

func TestSet_UnknownQueue(t *testing.T) {
	set := NewSet(testutil.NewTestDB(t), &recordingInvoker{}, fakeResolver{}, testConfig())

	_, err := set.Run(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrUnknownQueue))
	_, err = set.Requeue(context.Background(), "nope", []uint{1})
	assert.True(t, errors.Is(err, ErrUnknownQueue))
	assert.Equal(t, []string{BacklinkReview, Enrichment}, set.Names())
}

func TestSet_RequeueProcessingRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedPosts(t, db, 3)
	set := NewSet(db, &recordingInvoker{}, fakeResolver{}, testConfig())

	_, err := set.Run(context.Background(), Enrichment)
	require.NoError(t, err)

	n, err := set.Requeue(context.Background(), Enrichment, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := set.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[Enrichment][models.WorkStatusPending])
	assert.Equal(t, int64(1), counts[Enrichment][models.WorkStatusProcessing])
}

func TestNewInvoker_PicksTransport(t *testing.T) {
	jobs := &recordingInvoker{}
	cfg := testConfig()
	assert.Same(t, jobs, NewInvoker(cfg, jobs, "key").(*recordingInvoker))

	cfg.Transport = config.TransportHTTP
	cfg.FunctionsBaseURL = "https://functions.example"
	_, isHTTP := NewInvoker(cfg, jobs, "key").(*functions.Client)
	assert.True(t, isHTTP)
}
