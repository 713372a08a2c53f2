package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const postsPath = "/wp-json/wp/v2/posts/"

// ErrPostNotFound is returned when the site answers 404 for a post.
var ErrPostNotFound = errors.New("wordpress post not found")

// Post is the subset of the WordPress REST post resource the workers read.
type Post struct {
	ID          uint64
	Link        string
	Title       string
	ContentHTML string
	PublishedAt *time.Time
}

// Auth is a WordPress application password.
type Auth struct {
	Username string
	Password string
}

type Client struct {
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

type rawPost struct {
	ID      uint64 `json:"id"`
	DateGMT string `json:"date_gmt"`
	Link    string `json:"link"`
	Title   struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
}

// BaseURL returns the site root for the REST API. An explicit API URL wins
// over the bare domain, which is assumed to serve HTTPS.
func BaseURL(domain, apiURL string) string {
	if u := strings.TrimSpace(apiURL); u != "" {
		u = strings.TrimRight(u, "/")
		return strings.TrimSuffix(u, "/wp-json")
	}
	return "https://" + strings.TrimRight(strings.TrimSpace(domain), "/")
}

// GetPost fetches one post. auth may be nil for public posts; with auth the
// request uses the edit context so drafts are visible too.
func (c *Client) GetPost(ctx context.Context, baseURL string, postID uint64, auth *Auth) (*Post, error) {
	endpoint := fmt.Sprintf("%s%s%d", strings.TrimRight(baseURL, "/"), postsPath, postID)
	if auth != nil {
		endpoint += "?context=edit"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read wordpress response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %d", ErrPostNotFound, postID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wordpress request failed: status=%d body=%s", resp.StatusCode, truncate(string(body), 300))
	}

	var raw rawPost
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode wordpress post: %w", err)
	}

	post := &Post{
		ID:          raw.ID,
		Link:        raw.Link,
		Title:       Text(raw.Title.Rendered),
		ContentHTML: raw.Content.Rendered,
	}
	if raw.DateGMT != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", raw.DateGMT); err == nil {
			t = t.UTC()
			post.PublishedAt = &t
		}
	}
	return post, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
