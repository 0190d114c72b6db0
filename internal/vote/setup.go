package vote

import (
	"fmt"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
)

// PrimeDB 迁移投票表结构
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Vote{}); err != nil {
		return fmt.Errorf("无法迁移Vote表: %w", err)
	}
	fmt.Println("Vote表迁移成功。")
	return nil
}
