package vote

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinRating 和 MaxRating 界定了合法评分的闭区间
const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating = errors.New("评分必须是1到5之间的整数")
	ErrVoteNotFound  = errors.New("投票不存在")
)

// RateLimitedError 表示评审在当前窗口内的投票次数已用尽。
// RetryAfterSeconds 告知调用方还需等待多久。
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("投票过于频繁，请在%d秒后重试", e.RetryAfterSeconds)
}

// SubmitResult 是一次投票提交的结果，附带提交后的聚合数据
type SubmitResult struct {
	Vote  Vote
	Stats pitch.Stats
}

// SubmitVote 处理一次评分提交：新投票或对已有投票的原地改写。
// 整个流程在单个数据库事务中完成，对Pitch行的行级锁保证了
// 同一Pitch上的写入和聚合重算是串行的；对评审行的行级锁保证了
// 限流的检查和计数递增是原子的。
func SubmitVote(pitchID string, reviewerID string, rating int, now time.Time) (*SubmitResult, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	var result SubmitResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 先锁Pitch行，作为该Pitch上所有投票写入的临界区
		p, err := pitch.LockForAggregation(tx, pitchID)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return pitch.ErrPitchNotFound
		}

		// 再锁评审行，使限流的check-then-increment成为原子操作
		reviewer, err := user.LockReviewerForVote(tx, reviewerID)
		if err != nil {
			return err
		}

		decision := user.Admit(reviewer, now)
		if !decision.Allowed {
			return &RateLimitedError{RetryAfterSeconds: decision.RetryAfterSeconds}
		}

		var existing Vote
		err = tx.Where("pitch_id = ? AND reviewer_id = ?", pitchID, reviewerID).First(&existing).Error
		switch {
		case err == nil:
			// 原地改写：保留上一次评分，标记为已更新
			previous := existing.Rating
			existing.PreviousRating = &previous
			existing.Rating = rating
			existing.IsUpdated = true
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("更新投票失败: %w", err)
			}
			result.Vote = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("生成投票ID失败: %w", err)
			}
			newVote := Vote{
				UUID:       id.String(),
				PitchID:    pitchID,
				ReviewerID: reviewerID,
				Rating:     rating,
			}
			if err := tx.Create(&newVote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// 唯一索引兜住了并发写入的竞争，属于不变量被破坏，直接报错
					return fmt.Errorf("投票唯一性约束冲突 pitch=%s reviewer=%s: %w", pitchID, reviewerID, err)
				}
				return fmt.Errorf("创建投票失败: %w", err)
			}
			result.Vote = newVote
		default:
			return fmt.Errorf("查询投票失败: %w", err)
		}

		stats, err := pitch.RecomputeAggregates(tx, pitchID)
		if err != nil {
			return err
		}
		result.Stats = *stats

		return user.ApplyVoteTracking(tx, reviewer, now)
	})
	if err != nil {
		return nil, err
	}

	// 缓存更新在事务外进行，失败时由reconciler兜底
	pitch.UpdateCache(pitchID, result.Stats)
	return &result, nil
}

// DeleteVote 撤回一条投票并触发聚合重算。
// 只有投票的所有者可以删除；投票不存在和不属于该评审
// 这两种情况返回同一个错误，避免泄露投票的存在性。
// 撤回不消耗限流配额。
func DeleteVote(voteID string, reviewerID string) error {
	var pitchID string
	var stats *pitch.Stats
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var v Vote
		if err := tx.Where("uuid = ?", voteID).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoteNotFound
			}
			return fmt.Errorf("查询投票失败: %w", err)
		}
		if v.ReviewerID != reviewerID {
			return ErrVoteNotFound
		}
		pitchID = v.PitchID

		// 与提交路径保持同样的加锁顺序
		_, err := pitch.LockForAggregation(tx, v.PitchID)
		if err != nil && !errors.Is(err, pitch.ErrPitchNotFound) {
			return err
		}
		pitchGone := errors.Is(err, pitch.ErrPitchNotFound)

		if err := tx.Delete(&v).Error; err != nil {
			return fmt.Errorf("删除投票失败: %w", err)
		}

		// Pitch已被删除时投票成了孤儿，清掉即可，不再重算
		if pitchGone {
			return nil
		}

		stats, err = pitch.RecomputeAggregates(tx, v.PitchID)
		return err
	})
	if err != nil {
		return err
	}

	if stats != nil {
		pitch.UpdateCache(pitchID, *stats)
	}
	return nil
}

// GetReviewerVotes 返回某个评审的全部在册投票，按更新时间倒序
func GetReviewerVotes(reviewerID string) ([]Vote, error) {
	var votes []Vote
	err := database.DB.Where("reviewer_id = ?", reviewerID).Order("updated_at DESC").Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("查询投票记录失败: %w", err)
	}
	return votes, nil
}

// PitchVoteStats 是单个Pitch的投票统计，含1-5分的分布
type PitchVoteStats struct {
	TotalVotes    int64
	AverageRating float64
	Distribution  map[int]int64
}

// GetPitchVoteStats 统计某个Pitch的投票分布
func GetPitchVoteStats(pitchID string) (*PitchVoteStats, error) {
	if _, err := pitch.GetByID(pitchID); err != nil {
		return nil, err
	}

	type distRow struct {
		Rating int
		Count  int64
	}
	var rows []distRow
	err := database.DB.Model(&Vote{}).
		Select("rating, COUNT(*) AS count").
		Where("pitch_id = ?", pitchID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计投票分布失败: %w", err)
	}

	stats := &PitchVoteStats{Distribution: make(map[int]int64, MaxRating)}
	for r := MinRating; r <= MaxRating; r++ {
		stats.Distribution[r] = 0
	}
	var sum int64
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.Count
		stats.TotalVotes += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.TotalVotes > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalVotes)
	}
	return stats, nil
}
