package models

import "time"

// SiteCredential holds the WordPress application password used to call a
// partner site's REST API. The password is stored sealed.
type SiteCredential struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Domain      string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"domain"`
	APIURL      string    `gorm:"column:api_url;type:varchar(500)" json:"api_url"`
	Username    string    `gorm:"type:varchar(191)" json:"username"`
	PasswordEnc string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
