// Package queues wires the two status-driven work tables to their runners.
package queues

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/credentials"
	"github.com/ManuelReschke/LinkFox/internal/pkg/functions"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workqueue"
)

// Queue names as used in routes, logs and metrics.
const (
	Enrichment     = "enrichment"
	BacklinkReview = "backlink-review"
)

var ErrUnknownQueue = errors.New("unknown queue")

// CredentialResolver maps a partner domain to its API credentials.
type CredentialResolver interface {
	Resolve(domain string) (credentials.Credentials, error)
}

var postColumns = workqueue.Columns{Status: "status", Message: "error_message", ClaimToken: "claim_token"}

var backlinkColumns = workqueue.Columns{Status: "review_status", Message: "review_message", ClaimToken: "claim_token"}

func NewPostStore(db *gorm.DB) *workqueue.GormStore[models.WordPressPost] {
	return workqueue.NewGormStore(db, postColumns, func(p models.WordPressPost) workqueue.Item {
		return workqueue.Item{ID: p.ID, Payload: map[string]interface{}{
			"id":         p.ID,
			"domain":     p.Domain,
			"wp_post_id": p.WPPostID,
		}}
	})
}

func NewBacklinkStore(db *gorm.DB) *workqueue.GormStore[models.Backlink] {
	return workqueue.NewGormStore(db, backlinkColumns, func(b models.Backlink) workqueue.Item {
		return workqueue.Item{ID: b.ID, Payload: map[string]interface{}{
			"id":         b.ID,
			"domain":     b.Domain,
			"wp_post_id": b.WPPostID,
		}}
	})
}

// NewEnrichmentRunner drains pending WordPress posts into the enrichment worker.
func NewEnrichmentRunner(store workqueue.Store, invoker workqueue.Invoker, cfg config.QueueConfig) *workqueue.Runner {
	return workqueue.NewRunner(store, invoker, nil, workqueue.Options{
		Queue:       Enrichment,
		Worker:      workers.EnrichWordPressPost,
		BatchSize:   cfg.EnrichmentBatchSize,
		ClaimMode:   cfg.ClaimMode,
		Concurrency: cfg.DispatchConcurrency,
	})
}

// NewBacklinkReviewRunner drains pending backlinks into the review worker.
// Rows whose domain has no usable credentials end in error_credentials
// without a worker invocation.
func NewBacklinkReviewRunner(store workqueue.Store, invoker workqueue.Invoker, resolver CredentialResolver, cfg config.QueueConfig) *workqueue.Runner {
	return workqueue.NewRunner(store, invoker, CredentialPreparer(resolver), workqueue.Options{
		Queue:        BacklinkReview,
		Worker:       workers.ReviewBacklink,
		BatchSize:    cfg.BacklinkReviewBatchSize,
		ClaimMode:    cfg.ClaimMode,
		Concurrency:  cfg.DispatchConcurrency,
		RejectStatus: models.WorkStatusErrorCredentials,
	})
}

// CredentialPreparer adds the partner site's API url and username to the
// payload. The password stays out of the payload; the worker resolves it again.
func CredentialPreparer(resolver CredentialResolver) workqueue.Preparer {
	return workqueue.PreparerFunc(func(ctx context.Context, item workqueue.Item) (map[string]interface{}, error) {
		domain, _ := item.Payload["domain"].(string)
		creds, err := resolver.Resolve(domain)
		if err != nil {
			return nil, err
		}
		payload := make(map[string]interface{}, len(item.Payload)+2)
		for k, v := range item.Payload {
			payload[k] = v
		}
		payload["api_url"] = creds.APIURL
		payload["username"] = creds.Username
		return payload, nil
	})
}

// NewInvoker picks the worker transport: the Redis job queue or the HTTP
// functions endpoint.
func NewInvoker(cfg config.QueueConfig, jobs workqueue.Invoker, serviceKey string) workqueue.Invoker {
	if cfg.Transport == config.TransportHTTP {
		return functions.NewClient(cfg.FunctionsBaseURL, serviceKey)
	}
	return jobs
}

// Set bundles both queues for the HTTP handlers and the scheduler.
type Set struct {
	runners   map[string]*workqueue.Runner
	posts     *workqueue.GormStore[models.WordPressPost]
	backlinks *workqueue.GormStore[models.Backlink]
}

func NewSet(db *gorm.DB, invoker workqueue.Invoker, resolver CredentialResolver, cfg config.QueueConfig) *Set {
	posts := NewPostStore(db)
	backlinks := NewBacklinkStore(db)
	return &Set{
		runners: map[string]*workqueue.Runner{
			Enrichment:     NewEnrichmentRunner(posts, invoker, cfg),
			BacklinkReview: NewBacklinkReviewRunner(backlinks, invoker, resolver, cfg),
		},
		posts:     posts,
		backlinks: backlinks,
	}
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.runners))
	for name := range s.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Set) Runner(name string) (*workqueue.Runner, error) {
	r, ok := s.runners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueue, name)
	}
	return r, nil
}

// Run executes one batch of the named queue.
func (s *Set) Run(ctx context.Context, name string) (workqueue.Result, error) {
	r, err := s.Runner(name)
	if err != nil {
		return workqueue.Result{}, err
	}
	return r.Run(ctx)
}

// Requeue moves the given rows of the named queue from processing back to pending.
func (s *Set) Requeue(ctx context.Context, name string, ids []uint) (int64, error) {
	switch name {
	case Enrichment:
		return s.posts.Requeue(ctx, ids)
	case BacklinkReview:
		return s.backlinks.Requeue(ctx, ids)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownQueue, name)
	}
}

// StatusCounts returns the row count per status for every queue.
func (s *Set) StatusCounts(ctx context.Context) (map[string]map[string]int64, error) {
	out := make(map[string]map[string]int64, 2)
	posts, err := s.posts.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s status counts: %w", Enrichment, err)
	}
	out[Enrichment] = posts
	backlinks, err := s.backlinks.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s status counts: %w", BacklinkReview, err)
	}
	out[BacklinkReview] = backlinks
	return out, nil
}
