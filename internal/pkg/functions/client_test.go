package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient("https://api.linkfox.test/api/v1/functions/", "service-key-123456")
	httpmock.ActivateNonDefault(c.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestInvoke_PostsPayloadWithServiceKey(t *testing.T) {
	c := newMockedClient(t)

	var got map[string]interface{}
	httpmock.RegisterResponder(http.MethodPost, "https://api.linkfox.test/api/v1/functions/enrich-wordpress-post",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer service-key-123456" {
				return httpmock.NewStringResponse(401, `{"error":"unauthorized"}`), nil
			}
			if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
				return httpmock.NewStringResponse(400, `{"error":"bad json"}`), nil
			}
			return httpmock.NewStringResponse(200, `{"status":"done"}`), nil
		})

	err := c.Invoke(context.Background(), "enrich-wordpress-post", map[string]interface{}{"id": 12, "domain": "partner.example"})
	require.NoError(t, err)
	assert.Equal(t, float64(12), got["id"])
	assert.Equal(t, "partner.example", got["domain"])
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestInvoke_Non2xxIsFailure(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://api.linkfox.test/api/v1/functions/review-backlink",
		httpmock.NewStringResponder(500, `{"error":"boom"}`))

	err := c.Invoke(context.Background(), "review-backlink", map[string]interface{}{"id": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
	assert.Contains(t, err.Error(), "boom")
}

func TestInvoke_TransportError(t *testing.T) {
	c := newMockedClient(t)
	err := c.Invoke(context.Background(), "unregistered", nil)
	assert.Error(t, err)
}
