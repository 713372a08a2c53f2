package models

import "time"

// WordPressPost is a post on a partner site waiting to be enriched with the
// metadata the WordPress REST API exposes for it.
type WordPressPost struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Domain       string     `gorm:"type:varchar(191);not null;index" json:"domain"`
	WPPostID     uint64     `gorm:"column:wp_post_id;not null" json:"wp_post_id"`
	Status       string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	ClaimToken   string     `gorm:"type:varchar(36);index" json:"-"`
	Title        string     `gorm:"type:varchar(500)" json:"title,omitempty"`
	Link         string     `gorm:"type:varchar(500)" json:"link,omitempty"`
	PublishedAt  *time.Time `gorm:"type:timestamp;default:null" json:"published_at,omitempty"`
	WordCount    int        `gorm:"default:0" json:"word_count"`
	EnrichedAt   *time.Time `gorm:"type:timestamp;default:null" json:"enriched_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WordPressPost) TableName() string {
	return "wordpress_posts"
}
