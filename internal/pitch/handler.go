package pitch

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// CreatePitchRequestBody 定义了提交Pitch请求体的JSON结构
type CreatePitchRequestBody struct {
	Title       string `json:"title" binding:"required,max=200"`
	OneLiner    string `json:"oneLiner" binding:"required,max=300"`
	Description string `json:"description" binding:"required,max=2000"`
	Category    string `json:"category" binding:"required"`
	Stage       string `json:"stage" binding:"required"`
	DemoURL     string `json:"demoUrl" binding:"required"`
	DeckURL     string `json:"deckUrl" binding:"required"`
}

// UpdatePitchRequestBody 定义了更新Pitch请求体的JSON结构，字段均可选
type UpdatePitchRequestBody struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	OneLiner    *string `json:"oneLiner" binding:"omitempty,max=300"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    *string `json:"category"`
	Stage       *string `json:"stage"`
	DemoURL     *string `json:"demoUrl"`
	DeckURL     *string `json:"deckUrl"`
}

// PitchResponse 是对外的Pitch信息，含四个派生聚合字段
type PitchResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	OneLiner      string     `json:"oneLiner"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Stage         string     `json:"stage"`
	DemoURL       string     `json:"demoUrl,omitempty"`
	DeckURL       string     `json:"deckUrl,omitempty"`
	TeamID        string     `json:"teamId"`
	AverageRating float64    `json:"averageRating"`
	TotalVotes    int        `json:"totalVotes"`
	WeightedScore float64    `json:"weightedScore"`
	LastVoteAt    *time.Time `json:"lastVoteAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FormatPitch 把持久化模型整理为API响应
func FormatPitch(p *Pitch) PitchResponse {
	return PitchResponse{
		ID:            p.UUID,
		Title:         p.Title,
		OneLiner:      p.OneLiner,
		Description:   p.Description,
		Category:      p.Category,
		Stage:         p.Stage,
		DemoURL:       p.DemoURL,
		DeckURL:       p.DeckURL,
		TeamID:        p.TeamID,
		AverageRating: p.AverageRating,
		TotalVotes:    p.TotalVotes,
		WeightedScore: p.WeightedScore,
		LastVoteAt:    p.LastVoteAt,
		CreatedAt:     p.CreatedAt,
	}
}

// HandleCreatePitch 处理founder提交Pitch
func HandleCreatePitch(c *gin.Context) {
	u, ok := user.CurrentUser(c)
	if !ok || u.TeamID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "必须先创建团队才能提交Pitch"})
		return
	}

	var body CreatePitchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	p, err := Create(*u.TeamID, CreateInput{
		Title:       body.Title,
		OneLiner:    body.OneLiner,
		Description: body.Description,
		Category:    body.Category,
		Stage:       body.Stage,
		DemoURL:     body.DemoURL,
		DeckURL:     body.DeckURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTeamAlreadyHasPitch):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "提交Pitch失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, FormatPitch(p))
}

// HandleGetPitch 返回单个Pitch的详情。
// 聚合字段优先从Redis快照读取，缓存未命中时回退到SQL行。
func HandleGetPitch(c *gin.Context) {
	p, err := GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPitchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询Pitch失败"})
		return
	}

	resp := FormatPitch(p)
	if cached := GetCachedStats(p.UUID); cached != nil {
		resp.AverageRating = cached.AverageRating
		resp.TotalVotes = cached.TotalVotes
		resp.WeightedScore = cached.WeightedScore
		resp.LastVoteAt = cached.LastVoteAt
	}

	c.JSON(http.StatusOK, resp)
}

// HandleListPitches 返回带筛选和分页的Pitch列表
func HandleListPitches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := List(ListOptions{
		Category: c.Query("category"),
		Stage:    c.Query("stage"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "newest"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询Pitch列表失败"})
		return
	}

	responses := make([]PitchResponse, 0, len(result.Pitches))
	for i := range result.Pitches {
		responses = append(responses, FormatPitch(&result.Pitches[i]))
	}

	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	pages := (result.Total + int64(pageSize) - 1) / int64(pageSize)
	c.JSON(http.StatusOK, gin.H{
		"pitches": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": pageSize,
			"total": result.Total,
			"pages": pages,
		},
	})
}

// HandleGetFilters 返回可用的category和stage枚举
func HandleGetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": Categories,
		"stages":     Stages,
	})
}

// HandleUpdatePitch 处理founder更新自己团队的Pitch
func HandleUpdatePitch(c *gin.Context) {
	u, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	var body UpdatePitchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	p, err := Update(c.Param("id"), u.UUID, UpdateInput{
		Title:       body.Title,
		OneLiner:    body.OneLiner,
		Description: body.Description,
		Category:    body.Category,
		Stage:       body.Stage,
		DemoURL:     body.DemoURL,
		DeckURL:     body.DeckURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrPitchNotFound), errors.Is(err, ErrNotOwner):
			// 不向非所有者暴露Pitch是否存在
			c.JSON(http.StatusNotFound, gin.H{"error": ErrPitchNotFound.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新Pitch失败"})
		}
		return
	}

	c.JSON(http.StatusOK, FormatPitch(p))
}

// HandleDeletePitch 处理founder删除自己团队的Pitch
func HandleDeletePitch(c *gin.Context) {
	u, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	err := Delete(c.Param("id"), u.UUID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPitchNotFound), errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusNotFound, gin.H{"error": ErrPitchNotFound.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除Pitch失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pitch已删除"})
}
