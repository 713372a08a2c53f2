package credentials

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/secrets"
)

var (
	ErrCredentialsNotFound   = errors.New("site credentials not found")
	ErrCredentialsIncomplete = errors.New("site credentials incomplete")
)

// Credentials are the decrypted REST API credentials of a partner site.
type Credentials struct {
	Domain   string
	APIURL   string
	Username string
	Password string
}

// Resolver maps a partner domain to usable credentials.
type Resolver struct {
	repo repository.SiteCredentialRepository
	box  *secrets.Box
}

func NewResolver(repo repository.SiteCredentialRepository, box *secrets.Box) *Resolver {
	return &Resolver{repo: repo, box: box}
}

// Resolve fails with ErrCredentialsNotFound when nothing is stored for the
// domain and with ErrCredentialsIncomplete when the stored record lacks a
// field or its password cannot be opened.
func (r *Resolver) Resolve(domain string) (Credentials, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return Credentials{}, fmt.Errorf("%w: empty domain", ErrCredentialsNotFound)
	}

	rec, err := r.repo.GetByDomain(domain)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Credentials{}, fmt.Errorf("%w for %s", ErrCredentialsNotFound, domain)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials for %s: %w", domain, err)
	}

	var missing []string
	if strings.TrimSpace(rec.APIURL) == "" {
		missing = append(missing, "api_url")
	}
	if strings.TrimSpace(rec.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(rec.PasswordEnc) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w for %s: missing %s", ErrCredentialsIncomplete, domain, strings.Join(missing, ", "))
	}

	password, err := r.box.Open(rec.PasswordEnc)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w for %s: password cannot be decrypted", ErrCredentialsIncomplete, domain)
	}

	return Credentials{
		Domain:   domain,
		APIURL:   rec.APIURL,
		Username: rec.Username,
		Password: password,
	}, nil
}
