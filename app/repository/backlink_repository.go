package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
)

type backlinkRepository struct {
	db *gorm.DB
}

func NewBacklinkRepository(db *gorm.DB) BacklinkRepository {
	return &backlinkRepository{db: db}
}

func (r *backlinkRepository) Create(backlink *models.Backlink) error {
	return r.db.Create(backlink).Error
}

func (r *backlinkRepository) GetByID(id uint) (*models.Backlink, error) {
	var b models.Backlink
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SetReviewResult records a terminal review outcome.
func (r *backlinkRepository) SetReviewResult(id uint, status, message string) error {
	now := time.Now()
	return r.db.Model(&models.Backlink{}).Where("id = ?", id).Updates(map[string]interface{}{
		"review_status":  status,
		"review_message": message,
		"reviewed_at":    &now,
	}).Error
}
