package credentials

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LinkFox/app/models"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/secrets"
	"github.com/ManuelReschke/LinkFox/internal/pkg/testutil"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newResolver(t *testing.T) (*Resolver, repository.SiteCredentialRepository, *secrets.Box) {
	t.Helper()
	box, err := secrets.NewBox(testKey)
	require.NoError(t, err)
	repo := repository.NewSiteCredentialRepository(testutil.NewTestDB(t))
	return NewResolver(repo, box), repo, box
}

func TestResolve_Complete(t *testing.T) {
	r, repo, box := newResolver(t)
	sealed, err := box.Seal("abcd efgh")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(&models.SiteCredential{Domain: "partner.example", APIURL: "https://partner.example", Username: "editor", PasswordEnc: sealed}))

	c, err := r.Resolve(" Partner.Example ")
	require.NoError(t, err)
	assert.Equal(t, "editor", c.Username)
	assert.Equal(t, "abcd efgh", c.Password)
}

func TestResolve_NotFound(t *testing.T) {
	r, _, _ := newResolver(t)
	_, err := r.Resolve("missing.example")
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
	assert.Contains(t, err.Error(), "missing.example")

	_, err = r.Resolve("")
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
}

func TestResolve_Incomplete(t *testing.T) {
	r, repo, _ := newResolver(t)
	require.NoError(t, repo.Upsert(&models.SiteCredential{Domain: "partner.example", APIURL: "https://partner.example"}))

	_, err := r.Resolve("partner.example")
	require.True(t, errors.Is(err, ErrCredentialsIncomplete))
	assert.True(t, strings.HasSuffix(err.Error(), "missing username, password"))
}

func TestResolve_UndecryptablePassword(t *testing.T) {
	r, repo, _ := newResolver(t)
	require.NoError(t, repo.Upsert(&models.SiteCredential{Domain: "partner.example", APIURL: "https://partner.example", Username: "editor", PasswordEnc: "garbage"}))

	_, err := r.Resolve("partner.example")
	assert.True(t, errors.Is(err, ErrCredentialsIncomplete))
}
