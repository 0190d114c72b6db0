package feedback

import (
	"fmt"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
)

// PrimeDB 迁移反馈表结构
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Feedback{}); err != nil {
		return fmt.Errorf("无法迁移Feedback表: %w", err)
	}
	fmt.Println("Feedback表迁移成功。")
	return nil
}
