package wordpress

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"testing/iotest"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postJSON = `{
  "id": 42,
  "date_gmt": "2026-02-03T10:20:30",
  "link": "https://partner.example/hello-world/",
  "title": {"rendered": "Hello &amp; welcome"},
  "content": {"rendered": "<p>Read <a href=\"https://client.example/\">our shop</a> today.</p>"}
}`

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient()
	httpmock.ActivateNonDefault(c.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestGetPost_Public(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://partner.example/wp-json/wp/v2/posts/42",
		httpmock.NewStringResponder(200, postJSON))

	post, err := c.GetPost(context.Background(), "https://partner.example", 42, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), post.ID)
	assert.Equal(t, "Hello & welcome", post.Title)
	assert.Equal(t, "https://partner.example/hello-world/", post.Link)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, 2026, post.PublishedAt.Year())
	assert.Equal(t, 20, post.PublishedAt.Minute())
}

func TestGetPost_AuthenticatedUsesEditContext(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://partner.example/wp-json/wp/v2/posts/42",
		func(req *http.Request) (*http.Response, error) {
			user, pass, ok := req.BasicAuth()
			if !ok || user != "editor" || pass != "app pass" || req.URL.Query().Get("context") != "edit" {
				return httpmock.NewStringResponse(401, `{"code":"rest_forbidden"}`), nil
			}
			return httpmock.NewStringResponse(200, postJSON), nil
		})

	_, err := c.GetPost(context.Background(), "https://partner.example/", 42, &Auth{Username: "editor", Password: "app pass"})
	require.NoError(t, err)
}

func TestGetPost_NotFound(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://partner.example/wp-json/wp/v2/posts/7",
		httpmock.NewStringResponder(404, `{"code":"rest_post_invalid_id"}`))

	_, err := c.GetPost(context.Background(), "https://partner.example", 7, nil)
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestGetPost_ServerError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://partner.example/wp-json/wp/v2/posts/7",
		httpmock.NewStringResponder(502, "bad gateway"))

	_, err := c.GetPost(context.Background(), "https://partner.example", 7, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestGetPost_BodyReadError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://partner.example/wp-json/wp/v2/posts/7",
		func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				Body:       io.NopCloser(iotest.ErrReader(errors.New("connection reset by peer"))),
				Request:    req,
			}, nil
		})

	_, err := c.GetPost(context.Background(), "https://partner.example", 7, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read wordpress response")
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.NotContains(t, err.Error(), "decode")
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://partner.example", BaseURL("partner.example", ""))
	assert.Equal(t, "https://cms.partner.example", BaseURL("partner.example", "https://cms.partner.example/wp-json/"))
	assert.Equal(t, "http://10.0.0.5:8080", BaseURL("partner.example", "http://10.0.0.5:8080/"))
}
