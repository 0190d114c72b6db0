package team

import (
	"errors"
	"net/http"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// CreateTeamRequestBody 定义了创建团队请求体的JSON结构
type CreateTeamRequestBody struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=500"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	Website      string `json:"website" binding:"omitempty,url"`
}

// UpdateTeamRequestBody 定义了更新团队请求体的JSON结构，字段均可选
type UpdateTeamRequestBody struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	ContactEmail *string `json:"contactEmail" binding:"omitempty,email"`
	Website      *string `json:"website" binding:"omitempty,url"`
}

// TeamResponse 是对外的团队信息
type TeamResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	FounderID    string    `json:"founderId"`
	ContactEmail string    `json:"contactEmail"`
	Website      string    `json:"website,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func formatTeam(t *Team) TeamResponse {
	return TeamResponse{
		ID:           t.UUID,
		Name:         t.Name,
		Description:  t.Description,
		FounderID:    t.FounderID,
		ContactEmail: t.ContactEmail,
		Website:      t.Website,
		CreatedAt:    t.CreatedAt,
	}
}

// HandleCreateTeam 处理founder创建团队
func HandleCreateTeam(c *gin.Context) {
	u, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	var body CreateTeamRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	t, err := Create(u.UUID, CreateInput{
		Name:         body.Name,
		Description:  body.Description,
		ContactEmail: body.ContactEmail,
		Website:      body.Website,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyHasTeam) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建团队失败"})
		return
	}

	c.JSON(http.StatusCreated, formatTeam(t))
}

// HandleGetTeam 返回单个团队的信息
func HandleGetTeam(c *gin.Context) {
	t, err := GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询团队失败"})
		return
	}
	c.JSON(http.StatusOK, formatTeam(t))
}

// HandleUpdateTeam 处理founder更新自己的团队
func HandleUpdateTeam(c *gin.Context) {
	u, ok := user.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}

	var body UpdateTeamRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	t, err := Update(c.Param("id"), u.UUID, UpdateInput{
		Name:         body.Name,
		Description:  body.Description,
		ContactEmail: body.ContactEmail,
		Website:      body.Website,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrNotOwner):
			// 不向非所有者暴露团队是否存在
			c.JSON(http.StatusNotFound, gin.H{"error": ErrTeamNotFound.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新团队失败"})
		}
		return
	}

	c.JSON(http.StatusOK, formatTeam(t))
}
