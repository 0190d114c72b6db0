package vote

import (
	"time"
)

// Vote 定义了单条评分记录的数据结构。
// 一个评审对一个Pitch至多有一条在册投票，
// 由(pitch_id, reviewer_id)上的复合唯一索引从结构上保证。
// 第二次评分会原地改写这条记录，而不是新建一条。
type Vote struct {
	UUID string `gorm:"primarykey;type:varchar(36)"`

	PitchID    string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_votes_pitch_reviewer"`
	ReviewerID string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_votes_pitch_reviewer"`

	// Rating 是当前生效的评分，整数1-5
	Rating int `gorm:"not null"`

	// PreviousRating 在投票被改写时保留上一次的评分，仅用于审计
	PreviousRating *int

	// IsUpdated 标记该投票是否被改写过
	IsUpdated bool `gorm:"default:false"`

	// 删除是物理删除：投票被撤回后不留软删除痕迹
	CreatedAt time.Time
	UpdatedAt time.Time
}
