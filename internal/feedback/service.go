package feedback

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/pkg/profanity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyContent     = errors.New("反馈内容不能为空")
	ErrContentTooLong   = fmt.Errorf("反馈内容不能超过%d个字符", MaxFeedbackLength)
	ErrAlreadyLeft      = errors.New("已对该Pitch留过反馈")
	ErrFeedbackNotFound = errors.New("反馈不存在")
)

// Create 为指定Pitch创建一条反馈。
// 内容先做trim和长度校验，再过敏感词检查；命中敏感词的反馈
// 仍然入库，但会被标记，展示时只给打码后的文本。
func Create(pitchID string, reviewerID string, content string) (*Feedback, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxFeedbackLength {
		return nil, ErrContentTooLong
	}

	p, err := pitch.GetByID(pitchID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成反馈ID失败: %w", err)
	}

	fb := Feedback{
		UUID:       id.String(),
		PitchID:    p.UUID,
		ReviewerID: reviewerID,
		Content:    content,
		IsVisible:  true,
	}
	if check := profanity.Check(content); check.HasProfanity {
		fb.IsFlagged = true
		fb.ModerationReason = fmt.Sprintf("命中敏感词: %s", strings.Join(check.FlaggedWords, ", "))
	}

	if err := database.DB.Create(&fb).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLeft
		}
		return nil, fmt.Errorf("创建反馈失败: %w", err)
	}
	return &fb, nil
}

// DisplayContent 返回适合对外展示的反馈文本
func (f *Feedback) DisplayContent() string {
	if f.IsFlagged {
		return profanity.Filter(f.Content)
	}
	return f.Content
}

// ListByPitch 返回某个Pitch下所有可见反馈，按时间倒序
func ListByPitch(pitchID string) ([]Feedback, error) {
	if _, err := pitch.GetByID(pitchID); err != nil {
		return nil, err
	}

	var items []Feedback
	err := database.DB.Where("pitch_id = ? AND is_visible = ?", pitchID, true).
		Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询反馈失败: %w", err)
	}
	return items, nil
}

// Delete 删除评审自己留下的一条反馈。
// 不存在和不属于该评审的情况统一返回ErrFeedbackNotFound。
func Delete(feedbackID string, reviewerID string) error {
	var fb Feedback
	if err := database.DB.Where("uuid = ?", feedbackID).First(&fb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("查询反馈失败: %w", err)
	}
	if fb.ReviewerID != reviewerID {
		return ErrFeedbackNotFound
	}

	if err := database.DB.Delete(&fb).Error; err != nil {
		return fmt.Errorf("删除反馈失败: %w", err)
	}
	return nil
}
