package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/LinkFox/app/models"
)

type siteCredentialRepository struct {
	db *gorm.DB
}

func NewSiteCredentialRepository(db *gorm.DB) SiteCredentialRepository {
	return &siteCredentialRepository{db: db}
}

// GetByDomain looks up credentials by lower-cased domain.
func (r *siteCredentialRepository) GetByDomain(domain string) (*models.SiteCredential, error) {
	var cred models.SiteCredential
	err := r.db.Where("domain = ?", strings.ToLower(strings.TrimSpace(domain))).First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *siteCredentialRepository) Upsert(cred *models.SiteCredential) error {
	cred.Domain = strings.ToLower(strings.TrimSpace(cred.Domain))
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_url", "username", "password_enc", "updated_at"}),
	}).Create(cred).Error
}
