package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/credentials"
	"github.com/ManuelReschke/LinkFox/internal/pkg/wordpress"
)

// CredentialResolver maps a partner domain to its REST API credentials.
type CredentialResolver interface {
	Resolve(domain string) (credentials.Credentials, error)
}

// Reviewer checks that a placed backlink is present in its post.
type Reviewer struct {
	backlinks repository.BacklinkRepository
	creds     CredentialResolver
	wp        PostFetcher
}

func NewReviewer(backlinks repository.BacklinkRepository, creds CredentialResolver, wp PostFetcher) *Reviewer {
	return &Reviewer{backlinks: backlinks, creds: creds, wp: wp}
}

func (r *Reviewer) Handle(ctx context.Context, payload map[string]interface{}) (Outcome, error) {
	p, err := decodePayload(payload)
	if err != nil {
		return Outcome{}, err
	}
	b, err := r.backlinks.GetByID(p.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load backlink %d: %w", p.ID, err)
	}
	if models.IsTerminalWorkStatus(b.ReviewStatus) {
		log.Infof("[Worker] Backlink %d already %s, skipping", b.ID, b.ReviewStatus)
		return Outcome{ID: b.ID, Status: b.ReviewStatus, Message: b.ReviewMessage}, nil
	}

	status, message := r.review(ctx, b)
	if err := r.backlinks.SetReviewResult(b.ID, status, message); err != nil {
		return Outcome{}, fmt.Errorf("store review of backlink %d: %w", b.ID, err)
	}
	log.Infof("[Worker] Backlink %d reviewed: %s %s", b.ID, status, message)
	return Outcome{ID: b.ID, Status: status, Message: message}, nil
}

func (r *Reviewer) review(ctx context.Context, b *models.Backlink) (string, string) {
	cred, err := r.creds.Resolve(b.Domain)
	if err != nil {
		return models.WorkStatusErrorCredentials, err.Error()
	}

	auth := &wordpress.Auth{Username: cred.Username, Password: cred.Password}
	post, err := r.wp.GetPost(ctx, wordpress.BaseURL(b.Domain, cred.APIURL), b.WPPostID, auth)
	if errors.Is(err, wordpress.ErrPostNotFound) {
		return models.WorkStatusRejected, fmt.Sprintf("post %d not found on %s", b.WPPostID, b.Domain)
	}
	if err != nil {
		return models.WorkStatusError, err.Error()
	}

	return CheckLink(post.ContentHTML, b.TargetURL, b.AnchorText)
}

// CheckLink decides the review status for a post body: approved when it links
// to target (with the expected anchor text, when one is set), rejected otherwise.
func CheckLink(contentHTML, target, anchor string) (string, string) {
	anchor = strings.TrimSpace(anchor)
	var found []string
	for _, l := range wordpress.Links(contentHTML) {
		if !wordpress.SameURL(l.Href, target) {
			continue
		}
		if anchor == "" || strings.EqualFold(l.Text, anchor) {
			return models.WorkStatusApproved, ""
		}
		found = append(found, l.Text)
	}
	if len(found) > 0 {
		return models.WorkStatusRejected, fmt.Sprintf("anchor text mismatch: expected %q, found %q", anchor, strings.Join(found, `", "`))
	}
	return models.WorkStatusRejected, fmt.Sprintf("no link to %s", target)
}
