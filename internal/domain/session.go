package domain

import "time"

// Session 服务端会话，固定 7 天有效期，登出即删
type Session struct {
	Token       string    `gorm:"primaryKey;size:64" json:"-"`
	AdminUserID string    `gorm:"size:36;not null;index" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"-"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
