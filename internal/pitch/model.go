package pitch

import (
	"time"
)

// Category 枚举了Pitch的所属赛道
var Categories = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Education",
	"E-commerce",
	"Social Impact",
	"Entertainment",
	"Food & Beverage",
	"Transportation",
	"Other",
}

// Stages 枚举了Pitch的所处阶段
var Stages = []string{
	"Idea",
	"MVP",
	"Early Stage",
	"Growth Stage",
	"Established",
}

// IsValidCategory 判断category是否在枚举内
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidStage 判断stage是否在枚举内
func IsValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Pitch 定义了创业Pitch的持久化模型。
// 每个团队至多提交一个Pitch，由team_id上的唯一索引保证。
// 删除是物理删除，团队删掉旧Pitch后可以重新提交。
type Pitch struct {
	UUID string `gorm:"primarykey;type:varchar(36)"`

	Title       string `gorm:"not null;size:200"`
	OneLiner    string `gorm:"not null;size:300"`
	Description string `gorm:"not null;size:2000"`

	Category string `gorm:"index;not null"`
	Stage    string `gorm:"index;not null"`

	DemoURL string `gorm:"not null"`
	DeckURL string `gorm:"not null"`

	TeamID string `gorm:"type:varchar(36);uniqueIndex;not null"`

	// --- 以下四个字段为派生数据 ---
	// 它们只属于聚合器：每次影响该Pitch的投票被接受或删除后，
	// 在同一事务内从投票账本整体重算，客户端永远不能直接写入。
	AverageRating float64    `gorm:"default:0"`
	TotalVotes    int        `gorm:"default:0"`
	WeightedScore float64    `gorm:"index;default:0"`
	LastVoteAt    *time.Time `gorm:"index"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
