package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LinkFox/app/models"
)

type wordPressPostRepository struct {
	db *gorm.DB
}

func NewWordPressPostRepository(db *gorm.DB) WordPressPostRepository {
	return &wordPressPostRepository{db: db}
}

func (r *wordPressPostRepository) Create(post *models.WordPressPost) error {
	return r.db.Create(post).Error
}

func (r *wordPressPostRepository) GetByID(id uint) (*models.WordPressPost, error) {
	var post models.WordPressPost
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// MarkEnriched stores the fetched metadata and moves the post to done.
func (r *wordPressPostRepository) MarkEnriched(id uint, data PostEnrichment) error {
	now := time.Now()
	return r.db.Model(&models.WordPressPost{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":         data.Title,
		"link":          data.Link,
		"published_at":  data.PublishedAt,
		"word_count":    data.WordCount,
		"enriched_at":   &now,
		"status":        models.WorkStatusDone,
		"error_message": "",
	}).Error
}

func (r *wordPressPostRepository) MarkError(id uint, message string) error {
	return r.db.Model(&models.WordPressPost{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        models.WorkStatusError,
		"error_message": message,
	}).Error
}
