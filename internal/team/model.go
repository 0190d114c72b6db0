package team

import (
	"time"

	"gorm.io/gorm"
)

// Team 定义了创业团队的持久化模型。
// 每个founder至多拥有一个团队，由founder_id上的唯一索引保证。
type Team struct {
	UUID string `gorm:"primarykey;type:varchar(36)"`

	Name        string `gorm:"not null;size:100"`
	Description string `gorm:"size:500"`

	// FounderID 指向创建团队的founder
	FounderID string `gorm:"type:varchar(36);uniqueIndex;not null"`

	ContactEmail string `gorm:"not null"`
	Website      string

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
