package pitch

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/pkg/lifecycle"
	"gorm.io/gorm"
)

// reconcileInterval 是对账器扫描脏集合的周期
const reconcileInterval = 5 * time.Second

// StartCacheReconciler 启动后台对账器。
// 它周期性地把缓存写入失败的Pitch从SQL（真相源）重新刷进Redis。
// 聚合字段随账本写入一起提交，永远可以安全重放，所以这里的重试是盲重试。
func StartCacheReconciler(handle *lifecycle.Handle) {
	go runReconciler(handle)
}

func runReconciler(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("聚合缓存对账器已启动。")

	timer := time.NewTimer(reconcileInterval)
	defer timer.Stop()

	for {
		select {
		case <-handle.Done():
			// 停机前做最后一轮对账
			reconcileOnce()
			fmt.Println("聚合缓存对账器已退出。")
			return
		case <-timer.C:
			reconcileOnce()
			timer.Reset(reconcileInterval)
		}
	}
}

// reconcileOnce 处理当前脏集合中的所有Pitch。
func reconcileOnce() {
	if !database.IsRedisHealthy() {
		return
	}

	dirtyIDs, err := database.RDB.SMembers(database.Ctx, DirtySetKey).Result()
	if err != nil {
		fmt.Printf("警告: 对账器读取脏集合失败: %v\n", err)
		return
	}

	for _, pitchID := range dirtyIDs {
		var p Pitch
		err := database.DB.Where("uuid = ?", pitchID).First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Pitch已被删除，清掉它的缓存痕迹
				RemoveFromCache(pitchID)
				continue
			}
			fmt.Printf("警告: 对账器无法读取Pitch %s: %v\n", pitchID, err)
			continue
		}

		UpdateCache(p.UUID, Stats{
			TotalVotes:    p.TotalVotes,
			AverageRating: p.AverageRating,
			WeightedScore: p.WeightedScore,
			LastVoteAt:    p.LastVoteAt,
		})
	}
}
