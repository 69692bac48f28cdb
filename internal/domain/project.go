package domain

import (
	"sort"
	"strconv"
	"time"
)

// 展示框类型，仅影响前端取景框，无业务语义
const (
	DeviceMonitor = "monitor"
	DevicePhone   = "phone"
	DeviceTablet  = "tablet"
)

// Project 作品集条目。OrderIndex 以字符串存储、按数值排序
type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:191;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	DeviceType  string    `gorm:"size:16;not null;default:monitor" json:"deviceType"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	OrderIndex  string    `gorm:"size:32;not null;default:0" json:"orderIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Project) TableName() string { return "projects" }

// ProjectPatch 部分更新：nil 字段保持原值
type ProjectPatch struct {
	Title       *string   `json:"title" binding:"omitempty,min=1"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	DeviceType  *string   `json:"deviceType" binding:"omitempty,oneof=monitor phone tablet"`
	Tags        *[]string `json:"tags"`
	OrderIndex  *string   `json:"orderIndex"`
}

func (p *Project) Apply(patch ProjectPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.DeviceType != nil {
		p.DeviceType = *patch.DeviceType
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.OrderIndex != nil {
		p.OrderIndex = *patch.OrderIndex
	}
}

// orderIndexValue 非数值一律按 0 处理；原值保留不改写
func orderIndexValue(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// SortProjects 按 OrderIndex 数值升序稳定排序；两个后端共用，
// 避免三种 SQL 方言的 CAST 行为差异
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return orderIndexValue(projects[i].OrderIndex) < orderIndexValue(projects[j].OrderIndex)
	})
}
