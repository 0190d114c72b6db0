package user

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- 投票频率限制常量 ---

const (
	// VoteWindow 是滑动计数窗口的长度
	VoteWindow = 60 * time.Second
	// MaxVotesPerWindow 是单个评审在一个窗口内允许的投票上限
	MaxVotesPerWindow = 10
)

// ErrNotReviewer 表示该用户没有投票能力。
var ErrNotReviewer = errors.New("该用户不是评审，无法投票")

// AdmitDecision 是一次频率检查的结果。
type AdmitDecision struct {
	Allowed bool
	// RetryAfterSeconds 仅在拒绝时有意义，指示距离窗口结束的秒数
	RetryAfterSeconds int
}

// Admit 对给定时刻做纯函数式的频率评估，不修改任何状态。
// 计数的重置是惰性的：只要距上次投票超过一个窗口，旧计数即视为归零。
func Admit(u *User, now time.Time) AdmitDecision {
	// 从未投过票时视为窗口外
	if u.LastVoteTime == nil {
		return AdmitDecision{Allowed: true}
	}

	elapsed := now.Sub(*u.LastVoteTime)
	if elapsed > VoteWindow {
		// 窗口已结束，计数将由ApplyVoteTracking重置为1
		return AdmitDecision{Allowed: true}
	}

	if u.VoteCount < MaxVotesPerWindow {
		return AdmitDecision{Allowed: true}
	}

	retryAfter := int(VoteWindow.Seconds()) - int(elapsed.Seconds())
	if retryAfter < 0 {
		retryAfter = 0
	}
	return AdmitDecision{Allowed: false, RetryAfterSeconds: retryAfter}
}

// LockReviewerForVote 在事务中以FOR UPDATE锁定评审行并返回它。
// 检查与计数更新在同一把行锁下完成，
// 同一评审的并发投票不可能同时观察到"未超限"。
func LockReviewerForVote(tx *gorm.DB, reviewerID string) (*User, error) {
	var u User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", reviewerID).First(&u).Error
	if err != nil {
		return nil, fmt.Errorf("无法锁定评审 %s: %w", reviewerID, err)
	}
	if !u.IsReviewer() {
		return nil, ErrNotReviewer
	}
	return &u, nil
}

// ApplyVoteTracking 在一次被接受的投票后更新频率状态。
// 它必须在与投票写入相同的事务中、且每次接受的投票恰好调用一次：
// 窗口已结束时计数重置为1，否则加1；总是把LastVoteTime推进到now。
func ApplyVoteTracking(tx *gorm.DB, u *User, now time.Time) error {
	if u.LastVoteTime == nil || now.Sub(*u.LastVoteTime) > VoteWindow {
		u.VoteCount = 1
	} else {
		u.VoteCount++
	}
	u.LastVoteTime = &now

	err := tx.Model(&User{}).Where("uuid = ?", u.UUID).
		Updates(map[string]interface{}{
			"vote_count":     u.VoteCount,
			"last_vote_time": u.LastVoteTime,
		}).Error
	if err != nil {
		return fmt.Errorf("无法更新评审 %s 的投票频率状态: %w", u.UUID, err)
	}
	return nil
}
