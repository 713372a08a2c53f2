package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	TouchAPIKey(userID uint, at time.Time) error
	SetAPIKeyHash(userID uint, hash string) error
}

// SiteCredentialRepository stores the REST API credentials of partner sites.
type SiteCredentialRepository interface {
	GetByDomain(domain string) (*models.SiteCredential, error)
	Upsert(cred *models.SiteCredential) error
}

// PostEnrichment carries the fields an enrichment worker fills in.
type PostEnrichment struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	WordCount   int
}

// WordPressPostRepository defines the worker-side operations on posts.
type WordPressPostRepository interface {
	Create(post *models.WordPressPost) error
	GetByID(id uint) (*models.WordPressPost, error)
	MarkEnriched(id uint, data PostEnrichment) error
	MarkError(id uint, message string) error
}

// BacklinkRepository defines the worker-side operations on backlinks.
type BacklinkRepository interface {
	Create(backlink *models.Backlink) error
	GetByID(id uint) (*models.Backlink, error)
	SetReviewResult(id uint, status, message string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	SiteCredential SiteCredentialRepository
	WordPressPost  WordPressPostRepository
	Backlink       BacklinkRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		SiteCredential: NewSiteCredentialRepository(db),
		WordPressPost:  NewWordPressPostRepository(db),
		Backlink:       NewBacklinkRepository(db),
	}
}
