package pitch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTeamAlreadyHasPitch 表示团队已经提交过Pitch
	ErrTeamAlreadyHasPitch = errors.New("每个团队只能提交一个Pitch")
	// ErrNotOwner 表示调用者不是该Pitch所属团队的founder
	ErrNotOwner = errors.New("没有权限操作该Pitch")
	// ErrInvalidField 表示提交的Pitch字段不合法
	ErrInvalidField = errors.New("Pitch字段不合法")
)

// CreateInput 是提交Pitch所需的数据。
type CreateInput struct {
	Title       string
	OneLiner    string
	Description string
	Category    string
	Stage       string
	DemoURL     string
	DeckURL     string
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func validateInput(input CreateInput) error {
	if !IsValidCategory(input.Category) {
		return fmt.Errorf("%w: 未知的category %q", ErrInvalidField, input.Category)
	}
	if !IsValidStage(input.Stage) {
		return fmt.Errorf("%w: 未知的stage %q", ErrInvalidField, input.Stage)
	}
	if !isHTTPURL(input.DemoURL) {
		return fmt.Errorf("%w: demoUrl必须是http(s)地址", ErrInvalidField)
	}
	if !isHTTPURL(input.DeckURL) {
		return fmt.Errorf("%w: deckUrl必须是http(s)地址", ErrInvalidField)
	}
	return nil
}

// Create 为一个团队提交Pitch。team_id上的唯一索引保证一个团队至多一个Pitch。
func Create(teamID string, input CreateInput) (*Pitch, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := team.GetByID(teamID); err != nil {
		return nil, err
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newPitch := Pitch{
		UUID:        newUUID.String(),
		Title:       strings.TrimSpace(input.Title),
		OneLiner:    strings.TrimSpace(input.OneLiner),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Stage:       input.Stage,
		DemoURL:     strings.TrimSpace(input.DemoURL),
		DeckURL:     strings.TrimSpace(input.DeckURL),
		TeamID:      teamID,
		IsActive:    true,
	}
	if err := database.DB.Create(&newPitch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamAlreadyHasPitch
		}
		return nil, fmt.Errorf("无法创建Pitch: %w", err)
	}

	// 让新Pitch以零分进入读侧缓存
	UpdateCache(newPitch.UUID, Stats{})

	return &newPitch, nil
}

// GetByID 按UUID查找激活状态的Pitch。
func GetByID(pitchID string) (*Pitch, error) {
	var p Pitch
	err := database.DB.Where("uuid = ? AND is_active = ?", pitchID, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("查询Pitch失败: %w", err)
	}
	return &p, nil
}

// GetByTeamID 查找一个团队的激活Pitch。
func GetByTeamID(teamID string) (*Pitch, error) {
	var p Pitch
	err := database.DB.Where("team_id = ? AND is_active = ?", teamID, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("查询Pitch失败: %w", err)
	}
	return &p, nil
}

// requireOwner 校验founder是否拥有该Pitch（经由团队）。
func requireOwner(p *Pitch, founderID string) error {
	t, err := team.GetByID(p.TeamID)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			// 团队已不存在时没有人拥有该Pitch
			return ErrNotOwner
		}
		return err
	}
	if t.FounderID != founderID {
		return ErrNotOwner
	}
	return nil
}

// UpdateInput 是可更新的Pitch字段，nil表示不修改。
// 派生的聚合字段不在其中：它们只属于聚合器。
type UpdateInput struct {
	Title       *string
	OneLiner    *string
	Description *string
	Category    *string
	Stage       *string
	DemoURL     *string
	DeckURL     *string
}

// Update 由founder更新自己团队的Pitch。
func Update(pitchID, founderID string, input UpdateInput) (*Pitch, error) {
	p, err := GetByID(pitchID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(p, founderID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.OneLiner != nil {
		updates["one_liner"] = strings.TrimSpace(*input.OneLiner)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if !IsValidCategory(*input.Category) {
			return nil, fmt.Errorf("%w: 未知的category %q", ErrInvalidField, *input.Category)
		}
		updates["category"] = *input.Category
	}
	if input.Stage != nil {
		if !IsValidStage(*input.Stage) {
			return nil, fmt.Errorf("%w: 未知的stage %q", ErrInvalidField, *input.Stage)
		}
		updates["stage"] = *input.Stage
	}
	if input.DemoURL != nil {
		if !isHTTPURL(*input.DemoURL) {
			return nil, fmt.Errorf("%w: demoUrl必须是http(s)地址", ErrInvalidField)
		}
		updates["demo_url"] = strings.TrimSpace(*input.DemoURL)
	}
	if input.DeckURL != nil {
		if !isHTTPURL(*input.DeckURL) {
			return nil, fmt.Errorf("%w: deckUrl必须是http(s)地址", ErrInvalidField)
		}
		updates["deck_url"] = strings.TrimSpace(*input.DeckURL)
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := database.DB.Model(p).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("无法更新Pitch: %w", err)
	}
	return p, nil
}

// Delete 由founder删除自己团队的Pitch，并清掉它的缓存条目。
func Delete(pitchID, founderID string) error {
	p, err := GetByID(pitchID)
	if err != nil {
		return err
	}
	if err := requireOwner(p, founderID); err != nil {
		return err
	}

	if err := database.DB.Delete(p).Error; err != nil {
		return fmt.Errorf("无法删除Pitch: %w", err)
	}

	RemoveFromCache(pitchID)
	return nil
}

// --- 列表查询 ---

// ListOptions 是Pitch列表查询的筛选与分页参数。
type ListOptions struct {
	Category string
	Stage    string
	Search   string
	SortBy   string // newest | oldest | rating | votes | weighted
	Page     int
	PageSize int
}

// ListResult 是一页Pitch及其总数。
type ListResult struct {
	Pitches []Pitch
	Total   int64
}

// List 按条件分页查询激活状态的Pitch。
func List(opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 50 {
		opts.PageSize = 20
	}

	query := database.DB.Model(&Pitch{}).Where("is_active = ?", true)
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Stage != "" {
		query = query.Where("stage = ?", opts.Stage)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("title LIKE ? OR one_liner LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计Pitch数量失败: %w", err)
	}

	switch opts.SortBy {
	case "oldest":
		query = query.Order("created_at ASC")
	case "rating":
		query = query.Order("average_rating DESC")
	case "votes":
		query = query.Order("total_votes DESC")
	case "weighted":
		query = query.Order("weighted_score DESC")
	default: // newest
		query = query.Order("created_at DESC")
	}

	var pitches []Pitch
	offset := (opts.Page - 1) * opts.PageSize
	if err := query.Offset(offset).Limit(opts.PageSize).Find(&pitches).Error; err != nil {
		return nil, fmt.Errorf("查询Pitch列表失败: %w", err)
	}

	return &ListResult{Pitches: pitches, Total: total}, nil
}
