package team

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyHasTeam 表示该founder已经创建过团队
	ErrAlreadyHasTeam = errors.New("每个创业者只能创建一个团队")
	// ErrTeamNotFound 表示团队不存在
	ErrTeamNotFound = errors.New("团队不存在")
	// ErrNotOwner 表示调用者不是团队的founder
	ErrNotOwner = errors.New("没有权限操作该团队")
)

// CreateInput 是创建团队所需的数据。
type CreateInput struct {
	Name         string
	Description  string
	ContactEmail string
	Website      string
}

// Create 为founder创建团队，并在同一事务中把用户与团队绑定。
// founder_id上的唯一索引从结构上防止了重复创建。
func Create(founderID string, input CreateInput) (*Team, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newTeam := Team{
		UUID:         newUUID.String(),
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		FounderID:    founderID,
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		Website:      strings.TrimSpace(input.Website),
		IsActive:     true,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newTeam).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyHasTeam
			}
			return fmt.Errorf("无法创建团队: %w", err)
		}
		if err := user.BindTeam(tx, founderID, newTeam.UUID); err != nil {
			return fmt.Errorf("无法绑定用户与团队: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &newTeam, nil
}

// GetByID 按UUID查找团队。
func GetByID(teamID string) (*Team, error) {
	var t Team
	err := database.DB.Where("uuid = ? AND is_active = ?", teamID, true).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("查询团队失败: %w", err)
	}
	return &t, nil
}

// UpdateInput 是可更新的团队字段，nil表示不修改。
type UpdateInput struct {
	Name         *string
	Description  *string
	ContactEmail *string
	Website      *string
}

// Update 由founder更新自己的团队信息。
func Update(teamID, founderID string, input UpdateInput) (*Team, error) {
	t, err := GetByID(teamID)
	if err != nil {
		return nil, err
	}
	if t.FounderID != founderID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
	}
	if input.Website != nil {
		updates["website"] = strings.TrimSpace(*input.Website)
	}
	if len(updates) == 0 {
		return t, nil
	}

	if err := database.DB.Model(t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("无法更新团队: %w", err)
	}
	return t, nil
}
