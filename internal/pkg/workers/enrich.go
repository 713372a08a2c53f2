package workers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/wordpress"
)

// PostFetcher reads posts from a partner site's REST API.
type PostFetcher interface {
	GetPost(ctx context.Context, baseURL string, postID uint64, auth *wordpress.Auth) (*wordpress.Post, error)
}

// Enricher fills in post metadata from the partner site's public API.
type Enricher struct {
	posts repository.WordPressPostRepository
	wp    PostFetcher
}

func NewEnricher(posts repository.WordPressPostRepository, wp PostFetcher) *Enricher {
	return &Enricher{posts: posts, wp: wp}
}

func (e *Enricher) Handle(ctx context.Context, payload map[string]interface{}) (Outcome, error) {
	p, err := decodePayload(payload)
	if err != nil {
		return Outcome{}, err
	}
	post, err := e.posts.GetByID(p.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load post %d: %w", p.ID, err)
	}
	if models.IsTerminalWorkStatus(post.Status) {
		log.Infof("[Worker] Post %d already %s, skipping", post.ID, post.Status)
		return Outcome{ID: post.ID, Status: post.Status, Message: post.ErrorMessage}, nil
	}

	wpPost, err := e.wp.GetPost(ctx, wordpress.BaseURL(post.Domain, ""), post.WPPostID, nil)
	if err != nil {
		msg := err.Error()
		log.Warnf("[Worker] Enrichment of post %d (%s #%d) failed: %s", post.ID, post.Domain, post.WPPostID, msg)
		if merr := e.posts.MarkError(post.ID, msg); merr != nil {
			return Outcome{}, fmt.Errorf("mark post %d as error: %w", post.ID, merr)
		}
		return Outcome{ID: post.ID, Status: models.WorkStatusError, Message: msg}, nil
	}

	data := repository.PostEnrichment{
		Title:       wpPost.Title,
		Link:        wpPost.Link,
		PublishedAt: wpPost.PublishedAt,
		WordCount:   wordpress.WordCount(wpPost.ContentHTML),
	}
	if err := e.posts.MarkEnriched(post.ID, data); err != nil {
		return Outcome{}, fmt.Errorf("store enrichment for post %d: %w", post.ID, err)
	}
	log.Infof("[Worker] Enriched post %d (%s #%d, %d words)", post.ID, post.Domain, post.WPPostID, data.WordCount)
	return Outcome{ID: post.ID, Status: models.WorkStatusDone}, nil
}
