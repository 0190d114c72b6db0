package pitch

import (
	"fmt"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Pitch{}); err != nil {
		return fmt.Errorf("无法迁移pitch表: %w", err)
	}
	fmt.Println("Pitch数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是pitch模块的初始化总入口：迁移表结构并预热读侧缓存。
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
