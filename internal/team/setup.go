package team

import (
	"fmt"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
)

// PrimeDB 负责自动迁移team模块的数据库表结构
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Team{}); err != nil {
		return fmt.Errorf("无法迁移team表: %w", err)
	}
	fmt.Println("Team数据库表迁移成功。")
	return nil
}
