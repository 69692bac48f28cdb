package domain

import "time"

// Profile 站点主理人信息，单例记录（0 或 1 条）
type Profile struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileImageURL *string   `gorm:"size:512" json:"profileImageUrl"`
	Bio1            string    `gorm:"type:text" json:"bio1"`
	Bio2            string    `gorm:"type:text" json:"bio2"`
	Bio3            string    `gorm:"type:text" json:"bio3"`
	Skills          []string  `gorm:"serializer:json" json:"skills"`
	ContactEmail    string    `gorm:"size:191" json:"contactEmail"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Profile) TableName() string { return "profile" }

type ProfilePatch struct {
	ProfileImageURL *string   `json:"profileImageUrl"`
	Bio1            *string   `json:"bio1"`
	Bio2            *string   `json:"bio2"`
	Bio3            *string   `json:"bio3"`
	Skills          *[]string `json:"skills"`
	ContactEmail    *string   `json:"contactEmail" binding:"omitempty,email"`
}

func (p *Profile) Apply(patch ProfilePatch) {
	if patch.ProfileImageURL != nil {
		p.ProfileImageURL = patch.ProfileImageURL
	}
	if patch.Bio1 != nil {
		p.Bio1 = *patch.Bio1
	}
	if patch.Bio2 != nil {
		p.Bio2 = *patch.Bio2
	}
	if patch.Bio3 != nil {
		p.Bio3 = *patch.Bio3
	}
	if patch.Skills != nil {
		p.Skills = *patch.Skills
	}
	if patch.ContactEmail != nil {
		p.ContactEmail = *patch.ContactEmail
	}
}

// SeedProfile 进程内后端的占位内容，保证零配置也能渲染公共页面。
// 持久化后端不做种子，getProfile 可为空直到首次写入
func SeedProfile() Profile {
	return Profile{
		Bio1: "Hi, I'm Rodrick! I'm a passionate web developer and designer with a love for creating beautiful, functional websites that make a real impact. With over 5 years of experience, I've had the privilege of working with clients from startups to established businesses.",
		Bio2: "My approach combines clean code with stunning design. I believe every website should not only look great but also provide an exceptional user experience. From concept to launch, I'm dedicated to bringing your vision to life.",
		Bio3: "When I'm not coding, you'll find me exploring new design trends, contributing to open-source projects, or enjoying a good cup of coffee while sketching out my next creative idea.",
		Skills: []string{
			"React", "TypeScript", "Node.js", "Tailwind CSS",
			"UI/UX Design", "Responsive Design", "API Development", "Database Design",
		},
		ContactEmail: "hello@codewithrodrick.com",
	}
}
