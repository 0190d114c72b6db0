package pitch

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// --- Redis 键名常量 ---

const (
	// StatsKey 是一个Redis Hash，存储每个Pitch的聚合统计快照。
	// Field: Pitch UUID
	// Value: CachedStats 结构体的JSON序列化字符串
	StatsKey = "pitch:stats"

	// RankingKey 是一个Redis Sorted Set，按加权分数镜像Pitch的排序。
	// 它只是SQL排名的读侧镜像，排行榜与名次查询始终以SQL为准。
	RankingKey = "pitch:ranking"

	// DirtySetKey 是一个Redis Set，存储缓存写入失败、待对账器重试的Pitch UUID。
	DirtySetKey = "pitch:dirty"
)

// CachedStats 定义了在 pitch:stats 哈希表中以JSON格式存储的聚合快照。
type CachedStats struct {
	AverageRating float64    `json:"averageRating"`
	TotalVotes    int        `json:"totalVotes"`
	WeightedScore float64    `json:"weightedScore"`
	LastVoteAt    *time.Time `json:"lastVoteAt"`
}

// repoMutex 保护对本模块管理的Redis键的并发访问。
// 缓存写入可以并发执行（读锁），整体重建（写锁）与它们互斥。
var repoMutex sync.RWMutex

// UpdateCache 把一次聚合重算的结果写入Redis读侧缓存。
// 这是尽力而为的操作：失败时把Pitch标记为脏，由对账器稍后重试，
// 绝不让缓存问题影响已提交的投票事务。
func UpdateCache(pitchID string, stats Stats) {
	if !database.IsRedisHealthy() {
		return
	}

	repoMutex.RLock()
	defer repoMutex.RUnlock()

	cached := CachedStats{
		AverageRating: stats.AverageRating,
		TotalVotes:    stats.TotalVotes,
		WeightedScore: stats.WeightedScore,
		LastVoteAt:    stats.LastVoteAt,
	}
	statsJSON, err := json.Marshal(cached)
	if err != nil {
		fmt.Printf("警告: 无法序列化Pitch %s 的聚合快照: %v\n", pitchID, err)
		return
	}

	pipe := database.RDB.TxPipeline()
	pipe.HSet(database.Ctx, StatsKey, pitchID, statsJSON)
	pipe.ZAdd(database.Ctx, RankingKey, redis.Z{Score: stats.WeightedScore, Member: pitchID})
	pipe.SRem(database.Ctx, DirtySetKey, pitchID)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 写入Pitch %s 的聚合缓存失败，已标记为脏: %v\n", pitchID, err)
		MarkDirty(pitchID)
	}
}

// MarkDirty 把一个Pitch标记为缓存不一致，等待对账器重试。
func MarkDirty(pitchID string) {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, DirtySetKey, pitchID).Err(); err != nil {
		// 连脏标记都写不进去时只能依赖下一次整体重建
		fmt.Printf("严重警告: 无法标记Pitch %s 为脏: %v\n", pitchID, err)
	}
}

// GetCachedStats 从Redis读取一个Pitch的聚合快照。
// 返回nil表示缓存中没有该Pitch（或Redis不可用），调用方应回退到SQL。
func GetCachedStats(pitchID string) *CachedStats {
	if !database.IsRedisHealthy() {
		return nil
	}

	statsJSON, err := database.RDB.HGet(database.Ctx, StatsKey, pitchID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		fmt.Printf("警告: 读取Pitch %s 的聚合缓存失败: %v\n", pitchID, err)
		return nil
	}

	var cached CachedStats
	if err := json.Unmarshal([]byte(statsJSON), &cached); err != nil {
		fmt.Printf("警告: 无法解析Pitch %s 的聚合缓存: %v\n", pitchID, err)
		return nil
	}
	return &cached
}

// RemoveFromCache 在Pitch被删除或下线后移除其缓存条目。
func RemoveFromCache(pitchID string) {
	if !database.IsRedisHealthy() {
		return
	}

	repoMutex.RLock()
	defer repoMutex.RUnlock()

	pipe := database.RDB.TxPipeline()
	pipe.HDel(database.Ctx, StatsKey, pitchID)
	pipe.ZRem(database.Ctx, RankingKey, pitchID)
	pipe.SRem(database.Ctx, DirtySetKey, pitchID)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 移除Pitch %s 的聚合缓存失败: %v\n", pitchID, err)
	}
}

// WarmupCache 从SQL整体重建Redis读侧缓存。
// 应用启动时和Redis重启恢复后都会调用它。
func WarmupCache() error {
	if database.RDB == nil {
		return nil
	}

	repoMutex.Lock()
	defer repoMutex.Unlock()

	var pitches []Pitch
	if err := database.DB.Where("is_active = ?", true).Find(&pitches).Error; err != nil {
		return fmt.Errorf("无法从SQL读取Pitch列表: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	// 先清空旧的缓存，确保数据一致性
	pipe.Del(database.Ctx, StatsKey, RankingKey, DirtySetKey)
	for _, p := range pitches {
		cached := CachedStats{
			AverageRating: p.AverageRating,
			TotalVotes:    p.TotalVotes,
			WeightedScore: p.WeightedScore,
			LastVoteAt:    p.LastVoteAt,
		}
		statsJSON, err := json.Marshal(cached)
		if err != nil {
			continue
		}
		pipe.HSet(database.Ctx, StatsKey, p.UUID, statsJSON)
		pipe.ZAdd(database.Ctx, RankingKey, redis.Z{Score: p.WeightedScore, Member: p.UUID})
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热Pitch聚合缓存失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个Pitch的聚合缓存到Redis。\n", len(pitches))
	return nil
}
