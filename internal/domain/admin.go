package domain

import "time"

// AdminUser 站点唯一管理员账号；Password 存 bcrypt 哈希，存储层不做哈希
type AdminUser struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Username        string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password        string    `gorm:"size:191;not null" json:"-"`
	ProfileImageURL *string   `gorm:"size:512" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (AdminUser) TableName() string { return "admin_users" }
