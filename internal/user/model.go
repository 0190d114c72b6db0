package user

import (
	"time"

	"gorm.io/gorm"
)

// Role 定义了用户角色的枚举类型
type Role string

const (
	// RoleFounder 表示创业者，可以创建团队并提交Pitch
	RoleFounder Role = "founder"
	// RoleReviewer 表示评审，可以投票和留下反馈
	RoleReviewer Role = "reviewer"
)

// User 定义了用户在数据库中的持久化模型。
// 角色在注册时确定，之后不可更改。
type User struct {
	// UUID 是用户的主键，UUIDv7字符串
	UUID string `gorm:"primarykey;type:varchar(36)"`

	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt哈希，永不外泄
	Name     string `gorm:"not null"`
	Role     Role   `gorm:"type:varchar(16);index;not null"`

	// TeamID 仅对founder有意义，指向其创建的团队
	TeamID *string `gorm:"type:varchar(36)"`

	// --- 投票频率限制状态 ---
	// LastVoteTime 是最近一次被接受的投票时间；为nil表示从未投过票。
	// VoteCount 只有相对LastVoteTime才有意义：
	// 距离LastVoteTime超过一个窗口后，计数在下一次检查时被惰性重置。
	LastVoteTime *time.Time
	VoteCount    int

	IsActive bool `gorm:"default:true"`

	// --- 登录统计 ---
	LastLoginAt *time.Time
	LoginCount  int

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Capabilities 是按角色推导的能力集合。
// 它在每个请求中只被求值一次（见middleware），
// 各个端点不应重新按角色做ad hoc判断。
type Capabilities struct {
	CanCreateTeam    bool
	CanSubmitPitch   bool
	CanVote          bool
	CanLeaveFeedback bool
}

// Capabilities 根据角色和激活状态求值能力集合。
func (u *User) Capabilities() Capabilities {
	if !u.IsActive {
		return Capabilities{}
	}
	switch u.Role {
	case RoleFounder:
		return Capabilities{
			CanCreateTeam:  u.TeamID == nil,
			CanSubmitPitch: u.TeamID != nil,
		}
	case RoleReviewer:
		return Capabilities{
			CanVote:          true,
			CanLeaveFeedback: true,
		}
	}
	return Capabilities{}
}

// IsFounder 判断用户是否为激活状态的创业者。
func (u *User) IsFounder() bool {
	return u.Role == RoleFounder && u.IsActive
}

// IsReviewer 判断用户是否为激活状态的评审。
func (u *User) IsReviewer() bool {
	return u.Role == RoleReviewer && u.IsActive
}
