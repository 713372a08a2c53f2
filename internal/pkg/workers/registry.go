package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/jobqueue"
)

// Worker names as used by the work queues and the functions endpoint.
const (
	EnrichWordPressPost = "enrich-wordpress-post"
	ReviewBacklink      = "review-backlink"
)

var ErrUnknownWorker = errors.New("unknown worker")

// Outcome is the terminal status a worker recorded for its row.
type Outcome struct {
	ID      uint   `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandlerFunc processes one row. It returns an error only when the row's
// terminal status could not be recorded.
type HandlerFunc func(ctx context.Context, payload map[string]interface{}) (Outcome, error)

type Registry struct {
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]HandlerFunc{}}
}

func (r *Registry) Register(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// Run executes the named worker synchronously.
func (r *Registry) Run(ctx context.Context, name string, payload map[string]interface{}) (Outcome, error) {
	h, ok := r.handlers[name]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownWorker, name)
	}
	return h(ctx, payload)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobRegistrar accepts job handlers; *jobqueue.Queue implements it.
type JobRegistrar interface {
	RegisterHandler(jobType jobqueue.JobType, h jobqueue.HandlerFunc)
}

// RegisterJobHandlers binds every worker to the job type of the same name.
// A job fails, and is retried by the queue, only when the worker could not
// record its row's outcome.
func (r *Registry) RegisterJobHandlers(q JobRegistrar) {
	for _, name := range r.Names() {
		q.RegisterHandler(jobqueue.JobType(name), func(ctx context.Context, job *jobqueue.Job) error {
			outcome, err := r.Run(ctx, name, job.Payload)
			if err != nil {
				return err
			}
			log.Infof("[Worker] %s: row %d -> %s", name, outcome.ID, outcome.Status)
			return nil
		})
	}
}

type rowPayload struct {
	ID uint `json:"id"`
}

// decodePayload reads the row id from a payload that may have gone through
// JSON, where numbers arrive as float64.
func decodePayload(payload map[string]interface{}) (rowPayload, error) {
	var p rowPayload
	data, err := json.Marshal(payload)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	if p.ID == 0 {
		return p, errors.New("invalid payload: id is required")
	}
	return p, nil
}

// NewDefaultRegistry registers the enrichment and backlink review workers.
func NewDefaultRegistry(repos *repository.Repositories, creds CredentialResolver, wp PostFetcher) *Registry {
	reg := NewRegistry()
	reg.Register(EnrichWordPressPost, NewEnricher(repos.WordPressPost, wp).Handle)
	reg.Register(ReviewBacklink, NewReviewer(repos.Backlink, creds, wp).Handle)
	return reg
}
