package models

import "time"

// Backlink is a purchased link placed in a post on a partner site. Review
// verifies the post actually links to the client's target URL.
type Backlink struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Domain        string     `gorm:"type:varchar(191);not null;index" json:"domain"`
	WPPostID      uint64     `gorm:"column:wp_post_id;not null" json:"wp_post_id"`
	TargetURL     string     `gorm:"type:varchar(500);not null" json:"target_url"`
	AnchorText    string     `gorm:"type:varchar(255)" json:"anchor_text,omitempty"`
	ReviewStatus  string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"review_status"`
	ReviewMessage string     `gorm:"type:text" json:"review_message,omitempty"`
	ClaimToken    string     `gorm:"type:varchar(36);index" json:"-"`
	ReviewedAt    *time.Time `gorm:"type:timestamp;default:null" json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
