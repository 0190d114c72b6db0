package feedback

import (
	"errors"
	"net/http"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// CreateFeedbackRequestBody 定义了创建反馈的请求体
type CreateFeedbackRequestBody struct {
	Content string `json:"content" binding:"required"`
}

// FeedbackResponse 定义了返回给前端的反馈数据结构
type FeedbackResponse struct {
	ID         string    `json:"id"`
	PitchID    string    `json:"pitchId"`
	ReviewerID string    `json:"reviewerId"`
	Content    string    `json:"content"`
	IsFlagged  bool      `json:"isFlagged"`
	CreatedAt  time.Time `json:"createdAt"`
}

func formatFeedback(f *Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         f.UUID,
		PitchID:    f.PitchID,
		ReviewerID: f.ReviewerID,
		Content:    f.DisplayContent(),
		IsFlagged:  f.IsFlagged,
		CreatedAt:  f.CreatedAt,
	}
}

// HandleCreateFeedback 处理 POST /api/pitches/:id/feedback 请求
func HandleCreateFeedback(c *gin.Context) {
	reviewer, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}

	var body CreateFeedbackRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyContent.Error()})
		return
	}

	fb, err := Create(c.Param("id"), reviewer.UUID, body.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, pitch.ErrPitchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAlreadyLeft):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建反馈失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": formatFeedback(fb)})
}

// HandleListFeedback 处理 GET /api/pitches/:id/feedback 请求
func HandleListFeedback(c *gin.Context) {
	items, err := ListByPitch(c.Param("id"))
	if err != nil {
		if errors.Is(err, pitch.ErrPitchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询反馈失败"})
		return
	}

	responses := make([]FeedbackResponse, 0, len(items))
	for i := range items {
		responses = append(responses, formatFeedback(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"feedback": responses, "total": len(responses)})
}

// HandleDeleteFeedback 处理 DELETE /api/feedback/:id 请求
func HandleDeleteFeedback(c *gin.Context) {
	reviewer, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}

	if err := Delete(c.Param("id"), reviewer.UUID); err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除反馈失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "反馈已删除"})
}
