package feedback

import (
	"errors"
	"strings"
	"testing"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&pitch.Pitch{}, &Feedback{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	database.DB = db
}

func createPitch(t *testing.T, id string) *pitch.Pitch {
	t.Helper()
	p := &pitch.Pitch{
		UUID:     id,
		Title:    "Pitch " + id,
		TeamID:   "team-" + id,
		IsActive: true,
	}
	if err := database.DB.Create(p).Error; err != nil {
		t.Fatalf("创建Pitch失败: %v", err)
	}
	return p
}

func TestCreateFeedback(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	fb, err := Create(p.UUID, "reviewer-1", "  Solid idea, go for it  ")
	if err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}
	if fb.Content != "Solid idea, go for it" {
		t.Fatalf("Content = %q, 应当去除首尾空白", fb.Content)
	}
	if fb.IsFlagged {
		t.Fatal("干净内容不应被标记")
	}
	if fb.DisplayContent() != fb.Content {
		t.Fatalf("DisplayContent = %q, want %q", fb.DisplayContent(), fb.Content)
	}
}

func TestCreateFeedbackValidation(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	tests := []struct {
		name    string
		pitchID string
		content string
		wantErr error
	}{
		{name: "空内容", pitchID: p.UUID, content: "", wantErr: ErrEmptyContent},
		{name: "纯空白", pitchID: p.UUID, content: "   \t  ", wantErr: ErrEmptyContent},
		{name: "超长内容", pitchID: p.UUID, content: strings.Repeat("x", MaxFeedbackLength+1), wantErr: ErrContentTooLong},
		{name: "Pitch不存在", pitchID: "missing", content: "nice", wantErr: pitch.ErrPitchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(tt.pitchID, "reviewer-1", tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// 刚好240个字符是允许的
	if _, err := Create(p.UUID, "reviewer-1", strings.Repeat("x", MaxFeedbackLength)); err != nil {
		t.Fatalf("240字符的反馈应当通过: %v", err)
	}
}

func TestCreateFeedbackOncePerReviewer(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	if _, err := Create(p.UUID, "reviewer-1", "first"); err != nil {
		t.Fatalf("首条反馈失败: %v", err)
	}
	if _, err := Create(p.UUID, "reviewer-1", "second"); !errors.Is(err, ErrAlreadyLeft) {
		t.Fatalf("err = %v, want ErrAlreadyLeft", err)
	}

	// 不同评审、不同Pitch不受影响
	if _, err := Create(p.UUID, "reviewer-2", "from another reviewer"); err != nil {
		t.Fatalf("其他评审的反馈失败: %v", err)
	}
	p2 := createPitch(t, "pitch-2")
	if _, err := Create(p2.UUID, "reviewer-1", "on another pitch"); err != nil {
		t.Fatalf("同一评审对其他Pitch的反馈失败: %v", err)
	}
}

func TestCreateFeedbackProfanity(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	fb, err := Create(p.UUID, "reviewer-1", "this pitch is spam")
	if err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}
	if !fb.IsFlagged {
		t.Fatal("命中违禁词的反馈应当被标记")
	}
	if fb.ModerationReason == "" {
		t.Fatal("被标记的反馈应当记录原因")
	}
	// 原文保留，展示时打码
	if fb.Content != "this pitch is spam" {
		t.Fatalf("Content = %q, 原文不应被改写", fb.Content)
	}
	if fb.DisplayContent() != "this pitch is ****" {
		t.Fatalf("DisplayContent = %q, want %q", fb.DisplayContent(), "this pitch is ****")
	}
}

func TestListByPitch(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	if _, err := Create(p.UUID, "reviewer-1", "first"); err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}
	if _, err := Create(p.UUID, "reviewer-2", "second"); err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}

	items, err := ListByPitch(p.UUID)
	if err != nil {
		t.Fatalf("查询反馈失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("反馈数 = %d, want 2", len(items))
	}

	// 不可见的反馈被过滤
	if err := database.DB.Model(&Feedback{}).Where("uuid = ?", items[0].UUID).
		Update("is_visible", false).Error; err != nil {
		t.Fatalf("隐藏反馈失败: %v", err)
	}
	items, err = ListByPitch(p.UUID)
	if err != nil {
		t.Fatalf("查询反馈失败: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("隐藏后反馈数 = %d, want 1", len(items))
	}

	if _, err := ListByPitch("missing"); !errors.Is(err, pitch.ErrPitchNotFound) {
		t.Fatalf("err = %v, want ErrPitchNotFound", err)
	}
}

func TestDeleteFeedback(t *testing.T) {
	newTestDB(t)
	p := createPitch(t, "pitch-1")

	fb, err := Create(p.UUID, "reviewer-1", "to be removed")
	if err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}

	// 不存在和不属于自己的反馈返回同一个错误
	if err := Delete("missing", "reviewer-1"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("err = %v, want ErrFeedbackNotFound", err)
	}
	if err := Delete(fb.UUID, "reviewer-2"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("err = %v, want ErrFeedbackNotFound", err)
	}

	if err := Delete(fb.UUID, "reviewer-1"); err != nil {
		t.Fatalf("删除反馈失败: %v", err)
	}
	items, err := ListByPitch(p.UUID)
	if err != nil {
		t.Fatalf("查询反馈失败: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("删除后反馈数 = %d, want 0", len(items))
	}

	// 物理删除释放了复合唯一索引，同一评审可以重新留言
	again, err := Create(p.UUID, "reviewer-1", "second thoughts")
	if err != nil {
		t.Fatalf("删除后重新留言失败: %v", err)
	}
	if again.UUID == fb.UUID {
		t.Fatalf("重新留言应生成新的UUID")
	}
}
