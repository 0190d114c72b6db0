package startup

import (
	"fmt"

	"github.com/SlpAus/startup-pitch-backend/internal/feedback"
	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/SlpAus/startup-pitch-backend/internal/vote"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeDB(); err != nil {
		return err
	}
	if err := team.PrimeDB(); err != nil {
		return err
	}
	if err := pitch.PrimeCachedDB(); err != nil {
		return err
	}
	if err := vote.PrimeDB(); err != nil {
		return err
	}
	if err := feedback.PrimeDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数。
// 缓存完全由SQL中的聚合数据派生，整体重建即可恢复一致。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := pitch.WarmupCache(); err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
