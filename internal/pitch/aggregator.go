package pitch

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPitchNotFound 表示Pitch不存在或已下线
var ErrPitchNotFound = errors.New("Pitch不存在")

// Stats 是聚合器的一次重算结果。
type Stats struct {
	TotalVotes    int
	AverageRating float64
	WeightedScore float64
	LastVoteAt    *time.Time
}

// CalculateWeightedScore 计算排名用的加权分数。
// 无票时恒为0；有票时为 averageRating * log10(totalVotes + 1)。
func CalculateWeightedScore(averageRating float64, totalVotes int) float64 {
	if totalVotes == 0 {
		return 0
	}
	return averageRating * math.Log10(float64(totalVotes)+1)
}

// LockForAggregation 在事务中以FOR UPDATE锁定Pitch行。
// 这把行锁就是单个Pitch的临界区：同一Pitch上的并发投票
// 必须串行通过"账本写入→聚合重算"这一段，否则会互相覆盖。
func LockForAggregation(tx *gorm.DB, pitchID string) (*Pitch, error) {
	var p Pitch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", pitchID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("无法锁定Pitch %s: %w", pitchID, err)
	}
	return &p, nil
}

// voteAggregateRow 用于接收对投票账本的聚合查询结果
type voteAggregateRow struct {
	Count     int
	RatingSum int
}

// RecomputeAggregates 从投票账本整体重算一个Pitch的四个派生字段，并写回Pitch行。
// 必须在已通过LockForAggregation锁定该Pitch的事务中调用，
// 四个字段在同一条UPDATE中落盘，读者不会观察到半更新的聚合。
// 整体重算而非增量更新：聚合永远是账本的纯函数，任何漂移都会被下一次重算修复。
func RecomputeAggregates(tx *gorm.DB, pitchID string) (*Stats, error) {
	var row voteAggregateRow
	err := tx.Table("votes").
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS rating_sum").
		Where("pitch_id = ?", pitchID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("无法聚合Pitch %s 的投票: %w", pitchID, err)
	}

	stats := Stats{}
	if row.Count > 0 {
		stats.TotalVotes = row.Count
		stats.AverageRating = float64(row.RatingSum) / float64(row.Count)
		stats.WeightedScore = CalculateWeightedScore(stats.AverageRating, stats.TotalVotes)

		// 最近一次投票时间取账本里最新的修改时间
		var lastVoteAt []time.Time
		err = tx.Table("votes").Where("pitch_id = ?", pitchID).
			Order("updated_at DESC").Limit(1).
			Pluck("updated_at", &lastVoteAt).Error
		if err != nil {
			return nil, fmt.Errorf("无法查询Pitch %s 的最近投票时间: %w", pitchID, err)
		}
		if len(lastVoteAt) > 0 {
			stats.LastVoteAt = &lastVoteAt[0]
		}
	}

	err = tx.Model(&Pitch{}).Where("uuid = ?", pitchID).
		Updates(map[string]interface{}{
			"average_rating": stats.AverageRating,
			"total_votes":    stats.TotalVotes,
			"weighted_score": stats.WeightedScore,
			"last_vote_at":   stats.LastVoteAt,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("无法写回Pitch %s 的聚合字段: %w", pitchID, err)
	}

	return &stats, nil
}
