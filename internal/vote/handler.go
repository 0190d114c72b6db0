package vote

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SubmitVoteRequestBody 定义了提交评分的请求体
type SubmitVoteRequestBody struct {
	Rating *int `json:"rating" binding:"required"`
}

// VoteResponse 定义了返回给前端的投票数据结构
type VoteResponse struct {
	ID             string    `json:"id"`
	PitchID        string    `json:"pitchId"`
	Rating         int       `json:"rating"`
	PreviousRating *int      `json:"previousRating,omitempty"`
	IsUpdated      bool      `json:"isUpdated"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func formatVote(v *Vote) VoteResponse {
	return VoteResponse{
		ID:             v.UUID,
		PitchID:        v.PitchID,
		Rating:         v.Rating,
		PreviousRating: v.PreviousRating,
		IsUpdated:      v.IsUpdated,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// HandleSubmitVote 处理 POST /api/pitches/:id/vote 请求
func HandleSubmitVote(c *gin.Context) {
	reviewer, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}

	var body SubmitVoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRating.Error()})
		return
	}

	result, err := SubmitVote(c.Param("id"), reviewer.UUID, *body.Rating, time.Now())
	if err != nil {
		var rateLimited *RateLimitedError
		switch {
		case errors.Is(err, ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, pitch.ErrPitchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, user.ErrNotReviewer):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.As(err, &rateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      rateLimited.Error(),
				"retryAfter": rateLimited.RetryAfterSeconds,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "提交投票失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vote": formatVote(&result.Vote),
		"pitch": gin.H{
			"totalVotes":    result.Stats.TotalVotes,
			"averageRating": result.Stats.AverageRating,
			"weightedScore": result.Stats.WeightedScore,
		},
	})
}

// HandleDeleteVote 处理 DELETE /api/votes/:id 请求
func HandleDeleteVote(c *gin.Context) {
	reviewer, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}

	if err := DeleteVote(c.Param("id"), reviewer.UUID); err != nil {
		if errors.Is(err, ErrVoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除投票失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "投票已撤回"})
}

// HandleMyVotes 处理 GET /api/votes/mine 请求
func HandleMyVotes(c *gin.Context) {
	reviewer, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}

	votes, err := GetReviewerVotes(reviewer.UUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询投票记录失败"})
		return
	}

	responses := make([]VoteResponse, 0, len(votes))
	for i := range votes {
		responses = append(responses, formatVote(&votes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"votes": responses, "total": len(responses)})
}

// HandlePitchVoteStats 处理 GET /api/pitches/:id/votes/stats 请求
func HandlePitchVoteStats(c *gin.Context) {
	stats, err := GetPitchVoteStats(c.Param("id"))
	if err != nil {
		if errors.Is(err, pitch.ErrPitchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计投票失败"})
		return
	}

	distribution := make(map[string]int64, len(stats.Distribution))
	for rating, count := range stats.Distribution {
		distribution[strconv.Itoa(rating)] = count
	}
	c.JSON(http.StatusOK, gin.H{
		"totalVotes":    stats.TotalVotes,
		"averageRating": stats.AverageRating,
		"distribution":  distribution,
	})
}
