package feedback

import (
	"time"
)

// MaxFeedbackLength 是单条反馈的最大字符数
const MaxFeedbackLength = 240

// Feedback 定义了评审留给Pitch的一句话反馈。
// 每个评审对同一个Pitch只能留一条，由复合唯一索引保证。
// 删除是物理删除，删掉后同一评审可以重新留言。
type Feedback struct {
	UUID string `gorm:"primarykey;type:varchar(36)"`

	PitchID    string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_feedback_pitch_reviewer"`
	ReviewerID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_feedback_pitch_reviewer"`

	Content string `gorm:"type:varchar(240);not null"`

	// IsFlagged 表示内容命中了敏感词，展示时会被打码
	IsFlagged        bool `gorm:"default:false"`
	ModerationReason string
	IsVisible        bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
